// Package buffer holds captured command streams: segments of bytes, the
// process-wide store that maps buffer ids to ordered segment lists, and the
// aggregate view used to replay a buffer as one logical stream.
package buffer

import "errors"

// ErrSegmentFull is returned when a write runs past the end of a segment
var ErrSegmentFull = errors.New("segment full")

// Kind describes how a segment came to exist
type Kind uint8

const (
	// Captured segments are filled once from the command input
	Captured Kind = iota
	// Allocated segments start zeroed and are meant as output targets
	Allocated
)

func (k Kind) String() string {
	switch k {
	case Captured:
		return "captured"
	case Allocated:
		return "allocated"
	}
	return "unknown"
}

// Segment is one fixed-length contiguous byte region. Its length never
// changes after creation. Writes land at the segment's own cursor.
type Segment struct {
	data []byte
	kind Kind
	pos  int
}

// NewCaptured wraps bytes read from the input. The segment takes ownership
// of data.
func NewCaptured(data []byte) *Segment {
	return &Segment{data: data, kind: Captured}
}

// NewAllocated creates a zero-filled segment of size bytes
func NewAllocated(size int) *Segment {
	return &Segment{data: make([]byte, size), kind: Allocated}
}

// Kind returns how the segment was created
func (s *Segment) Kind() Kind {
	return s.kind
}

// Writable reports whether the segment was allocated as a write target
func (s *Segment) Writable() bool {
	return s.kind == Allocated
}

// Len returns the segment capacity in bytes
func (s *Segment) Len() int {
	return len(s.data)
}

// Bytes returns the segment content. Callers must not retain or modify it.
func (s *Segment) Bytes() []byte {
	return s.data
}

// ByteAt returns the byte at offset i
func (s *Segment) ByteAt(i int) byte {
	return s.data[i]
}

// Position returns the write cursor
func (s *Segment) Position() int {
	return s.pos
}

// Write stores p at the cursor and advances it. Bytes that do not fit are
// dropped and ErrSegmentFull is returned with the count actually stored.
func (s *Segment) Write(p []byte) (int, error) {
	n := copy(s.data[s.pos:], p)
	s.pos += n
	if n < len(p) {
		return n, ErrSegmentFull
	}
	return n, nil
}
