package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ntamas-sdlog/sdlog/logformat"
	"github.com/ntamas-sdlog/sdlog/stream"
	"github.com/ntamas-sdlog/sdlog/typecode"
	"github.com/ntamas-sdlog/sdlog/writer"
)

// demoFormats builds a small, fixed pair of MessageFormats (GPS and ATT)
// used to exercise end-to-end writing without requiring the caller to hand
// the CLI a full schema definition.
func demoFormats() (gps, att *logformat.MessageFormat, err error) {
	gps, err = logformat.NewMessageFormat(1, "GPS")
	if err != nil {
		return nil, nil, err
	}
	if err := gps.AddColumns("status,lat,lng,alt", "BLLf", "-ddm"); err != nil {
		return nil, nil, err
	}

	att, err = logformat.NewMessageFormat(2, "ATT")
	if err != nil {
		return nil, nil, err
	}
	if err := att.AddColumns("roll,pitch,yaw", "fff", "ddd"); err != nil {
		return nil, nil, err
	}

	return gps, att, nil
}

func writeCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:     "write <path>",
		Short:   "Write a demo GPS/ATT session to path",
		Example: "sdlogtool write ./flight.sdlog --count 10",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runWrite(logger, args[0], count)
		},
	}

	cmd.Flags().IntVar(&count, "count", 5, "number of GPS/ATT sample pairs to write")

	return cmd
}

func runWrite(logger *zap.Logger, path string, count int) error {
	gps, att, err := demoFormats()
	if err != nil {
		return fmt.Errorf("building demo formats: %w", err)
	}

	s, err := stream.NewFileStream(path, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	w := writer.New(s)
	logger.Debug("writer created", zap.String("path", path))

	for i := 0; i < count; i++ {
		lat := 37.7749 + float64(i)*0.0001
		lng := -122.4194 - float64(i)*0.0001

		if err := w.Write(gps, typecode.Uint64V(3), typecode.Float64V(lat), typecode.Float64V(lng), typecode.Float32V(100+float32(i))); err != nil {
			_ = w.Close()
			return fmt.Errorf("writing GPS record %d: %w", i, err)
		}

		if err := w.Write(att, typecode.Float32V(0.1*float32(i)), typecode.Float32V(0.2*float32(i)), typecode.Float32V(0.3*float32(i))); err != nil {
			_ = w.Close()
			return fmt.Errorf("writing ATT record %d: %w", i, err)
		}

		logger.Debug("wrote sample pair", zap.Int("index", i))
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing writer: %w", err)
	}

	color.Green("wrote %d GPS/ATT sample pairs to %s", count, path)

	return nil
}
