package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntamas-sdlog/sdlog/logformat"
	"github.com/ntamas-sdlog/sdlog/record"
	"github.com/ntamas-sdlog/sdlog/stream"
	"github.com/ntamas-sdlog/sdlog/typecode"
	"github.com/ntamas-sdlog/sdlog/writer"
)

func dumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dump <path>",
		Short:   "Print the FMT announcements and record boundaries in an sdlog file",
		Example: "sdlogtool dump ./flight.sdlog",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runDump(logger, args[0])
		},
	}

	return cmd
}

// runDump walks the byte stream looking for the 0xA3 0x95 sync header. Every
// other message ID's record length is only knowable from its FMT
// announcement (there is no standalone decoder package — spec's decoder is
// explicitly out of scope), so the scanner remembers each ID's length as it
// discovers FMT records and uses that to step over subsequent records of
// the same ID.
func runDump(logger *zap.Logger, path string) error {
	r, err := stream.NewFileReader(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmtFormat, err := writer.NewFMTMessageFormat()
	if err != nil {
		return err
	}

	lengths := map[uint8]int{writer.FMTMessageID: 3 + int(fmtFormat.Size())}

	offset := 0
	recordCount := 0
	for offset < len(data) {
		if offset+3 > len(data) || data[offset] != record.SyncByte1 || data[offset+1] != record.SyncByte2 {
			logger.Warn("lost sync, stopping scan", zap.Int("offset", offset))
			break
		}

		id := data[offset+2]
		length, known := lengths[id]
		if !known {
			logger.Warn("unknown message id, no preceding FMT announcement; stopping scan",
				zap.Uint8("id", id), zap.Int("offset", offset))
			break
		}

		if offset+length > len(data) {
			logger.Warn("truncated record at end of file", zap.Int("offset", offset))
			break
		}

		rec := data[offset : offset+length]
		recordCount++

		if id == writer.FMTMessageID {
			describeFMT(fmtFormat, rec, lengths)
		} else {
			fmt.Printf("  [%6d] id=%-3d len=%-3d %s\n", offset, id, length, hex.EncodeToString(rec))
		}

		offset += length
	}

	color.Cyan("scanned %d records, %d bytes", recordCount, offset)

	return nil
}

// describeFMT decodes one FMT record using the canonical layout, prints the
// format it announces, and records the announced message's length so the
// scanner can step over its subsequent records.
func describeFMT(fmtFormat *logformat.MessageFormat, rec []byte, lengths map[uint8]int) {
	values := make([]typecode.Value, 0, fmtFormat.ColumnCount())
	offset := 3
	for i := 0; i < fmtFormat.ColumnCount(); i++ {
		col, _ := fmtFormat.Column(i)
		v, err := typecode.Decode(col.Type, rec[offset:])
		if err != nil {
			fmt.Printf("  [fmt] malformed announcement: %v\n", err)
			return
		}
		values = append(values, v)
		offset += col.Size()
	}

	announcedID := uint8(values[0].Uint())
	length := uint8(values[1].Uint())
	name := values[2].String()
	format := values[3].String()
	columns := values[4].String()

	lengths[announcedID] = int(length)

	fmt.Printf("  [fmt] id=%-3d len=%-3d name=%-4s format=%-16s columns=%s\n", announcedID, length, name, format, columns)
}
