package serial

import (
	"io"

	"vdp/protocol"
)

// Source adapts a byte stream reader into a protocol.Source. Incoming
// bytes are staged in a FIFO so one port read can feed many ReadByte calls.
type Source struct {
	r     io.Reader
	fifo  *protocol.FifoBuffer
	chunk []byte
}

// NewSource creates a Source reading r through a FIFO of fifoSize bytes
func NewSource(r io.Reader, fifoSize int) *Source {
	return &Source{
		r:     r,
		fifo:  protocol.NewFifoBuffer(fifoSize),
		chunk: make([]byte, fifoSize),
	}
}

// ReadByte returns the next byte. A read that returns no data and no error
// is a timeout. Reader errors, io.EOF included, are returned once the FIFO
// is drained.
func (s *Source) ReadByte() (byte, error) {
	if b, ok := s.fifo.PopByte(); ok {
		return b, nil
	}

	n, err := s.r.Read(s.chunk[:s.fifo.Free()])
	if n > 0 {
		s.fifo.Write(s.chunk[:n])
	}
	if b, ok := s.fifo.PopByte(); ok {
		return b, nil
	}
	if err != nil {
		return 0, err
	}
	return 0, protocol.ErrTimeout
}

// Buffered returns the number of received bytes not consumed yet
func (s *Source) Buffered() int {
	return s.fifo.Available()
}
