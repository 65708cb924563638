// Package writer implements the Writer state machine: the single entry
// point through which callers append records to a Stream. It tracks which
// MessageFormats have already had their self-describing FMT record emitted
// and re-announces a format only when a new *logformat.MessageFormat value
// is used for a given message ID (spec §4.5, §5, §8).
package writer
