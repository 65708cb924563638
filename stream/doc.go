// Package stream provides the uniform byte-sink/byte-source abstraction the
// writer package writes through: a file-backed stream, a growing in-memory
// buffer, and a null sink that discards everything. None of the three
// perform framing or interpretation of the bytes they move — that is the
// record and writer packages' job.
package stream
