package protocol

import (
	"errors"
	"io"
)

// ErrTimeout is returned by a Source when no byte arrived before the
// transport read timeout fired. It is distinct from io.EOF, which means the
// source is exhausted and will never produce more bytes.
var ErrTimeout = errors.New("read timeout")

// Source provides sequential command bytes to a processor
type Source interface {
	// ReadByte returns the next byte, ErrTimeout or io.EOF
	ReadByte() (byte, error)
}

// ReadWord reads a little-endian 16-bit word. A timeout or EOF on either
// byte is returned unchanged and the partial value is discarded.
func ReadWord(src Source) (uint16, error) {
	lo, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadFull reads exactly n bytes. Any error aborts the read and no bytes are
// returned.
func ReadFull(src Source, n int) ([]byte, error) {
	data := make([]byte, n)
	for i := range data {
		b, err := src.ReadByte()
		if err != nil {
			return nil, err
		}
		data[i] = b
	}
	return data, nil
}

// IsTimeout reports whether err is a transport timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsEnd reports whether err means the source is exhausted
func IsEnd(err error) bool {
	return errors.Is(err, io.EOF)
}

// SliceSource implements Source over a byte slice
type SliceSource struct {
	data []byte
}

// NewSliceSource creates a new SliceSource
func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

func (s *SliceSource) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}
