// Package record implements the RecordEncoder: serialization of a
// heterogeneous value list against a logformat.MessageFormat into one framed
// byte record (sync header + message ID + column payload).
package record
