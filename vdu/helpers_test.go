package vdu

import (
	"bytes"
	"io"

	"vdp/buffer"
	"vdp/protocol"
)

func word(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func sysCmd(code byte, args ...byte) []byte {
	return append([]byte{protocol.VDUSystem, protocol.VDUSystemMode, code}, args...)
}

func buffered(id uint16, command byte, operands ...byte) []byte {
	return sysCmd(protocol.SysBuffered, concat(word(id), []byte{command}, operands)...)
}

func writeCmd(id uint16, data []byte) []byte {
	return buffered(id, protocol.BufferedWrite, concat(word(uint16(len(data))), data)...)
}

func callCmd(id uint16) []byte   { return buffered(id, protocol.BufferedCall) }
func clearCmd(id uint16) []byte  { return buffered(id, protocol.BufferedClear) }
func outputCmd(id uint16) []byte { return buffered(id, protocol.BufferedSetOutput) }
func adjustCmd(id uint16) []byte { return buffered(id, protocol.BufferedAdjust) }

func createCmd(id, size uint16) []byte {
	return buffered(id, protocol.BufferedCreate, word(size)...)
}

func pollCmd(n byte) []byte {
	return sysCmd(protocol.SysGeneralPoll, n)
}

func pollReply(n byte) []byte {
	return []byte{protocol.PacketGeneralPoll | protocol.PacketFlag, 1, n}
}

// recorder collects the codes forwarded to the renderer
type recorder struct {
	codes []byte
}

func (r *recorder) Render(code byte, in protocol.Source, out io.Writer) error {
	r.codes = append(r.codes, code)
	return nil
}

// step is one item of a scripted source: bytes, or a timeout when nil
type step []byte

// scriptedSource yields its steps in order and reports io.EOF at the end
type scriptedSource struct {
	steps []step
}

func (s *scriptedSource) ReadByte() (byte, error) {
	for len(s.steps) > 0 {
		cur := s.steps[0]
		if cur == nil {
			s.steps = s.steps[1:]
			return 0, protocol.ErrTimeout
		}
		if len(cur) == 0 {
			s.steps = s.steps[1:]
			continue
		}
		b := cur[0]
		s.steps[0] = cur[1:]
		return b, nil
	}
	return 0, io.EOF
}

type harness struct {
	proc     *Processor
	out      *bytes.Buffer
	renderer *recorder
}

func newHarness(in protocol.Source, opts Options) *harness {
	h := &harness{out: &bytes.Buffer{}, renderer: &recorder{}}
	opts.Renderer = h.renderer
	h.proc = New(in, h.out, buffer.NewStore(), opts)
	return h
}

func run(stream []byte, opts Options) *harness {
	h := newHarness(protocol.NewSliceSource(stream), opts)
	h.proc.ProcessAll()
	return h
}
