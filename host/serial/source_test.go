package serial

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdp/protocol"
)

// chunkReader returns one chunk per Read; a nil chunk is a timeout
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	c := r.chunks[0]
	r.chunks = r.chunks[1:]
	return copy(p, c), nil
}

func TestSourceReadsThroughFifo(t *testing.T) {
	src := NewSource(&chunkReader{chunks: [][]byte{{1, 2, 3}, nil, {4}}}, 16)

	for _, want := range []byte{1, 2} {
		b, err := src.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}
	assert.Equal(t, 1, src.Buffered())

	b, err := src.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(3), b)

	_, err = src.ReadByte()
	assert.ErrorIs(t, err, protocol.ErrTimeout)

	b, err = src.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(4), b)

	_, err = src.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSourceWordAcrossReads(t *testing.T) {
	src := NewSource(&chunkReader{chunks: [][]byte{{0x34}, {0x12}}}, 4)

	w, err := protocol.ReadWord(src)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), w)
}

func TestSourceTimeoutInsideWord(t *testing.T) {
	src := NewSource(&chunkReader{chunks: [][]byte{{0x34}, nil, {0x12}}}, 4)

	_, err := protocol.ReadWord(src)
	assert.True(t, protocol.IsTimeout(err))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB1")
	assert.Equal(t, "/dev/ttyUSB1", cfg.Device)
	assert.Equal(t, 1152000, cfg.Baud)
	assert.NotZero(t, cfg.ReadTimeout)
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
}
