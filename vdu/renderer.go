package vdu

import (
	"io"

	"vdp/protocol"
)

// Renderer receives every VDU code that is not a system command. Drawing
// is not this package's concern; a renderer may read operands from in and
// reply through out, which honours output redirection.
type Renderer interface {
	Render(code byte, in protocol.Source, out io.Writer) error
}

// RenderFunc adapts a function to Renderer
type RenderFunc func(code byte, in protocol.Source, out io.Writer) error

func (f RenderFunc) Render(code byte, in protocol.Source, out io.Writer) error {
	return f(code, in, out)
}

// NopRenderer accepts and drops every code
type NopRenderer struct{}

func (NopRenderer) Render(byte, protocol.Source, io.Writer) error { return nil }

// prefixSource replays already consumed bytes before reading on
type prefixSource struct {
	pending []byte
	next    protocol.Source
}

func (s *prefixSource) ReadByte() (byte, error) {
	if len(s.pending) > 0 {
		b := s.pending[0]
		s.pending = s.pending[1:]
		return b, nil
	}
	return s.next.ReadByte()
}
