package session

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"vdp/config"
	"vdp/script"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// pipePort is an in-memory serial port
type pipePort struct {
	net.Conn
}

func (pipePort) Flush() error { return nil }

func startSession(t *testing.T, cfg *config.Config) (*Session, net.Conn, context.CancelFunc, <-chan error) {
	t.Helper()
	device, host := net.Pipe()
	s := New(cfg, pipePort{device}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	return s, host, cancel, done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
		return nil
	}
}

func TestSessionRepliesOverPort(t *testing.T) {
	s, host, cancel, done := startSession(t, config.Default())
	defer host.Close()

	stream := append(script.Create(5, 4), script.Write(6, script.Poll(9))...)
	stream = append(stream, script.Poll(1)...)
	_, err := host.Write(stream)
	require.NoError(t, err)

	reply := make([]byte, 3)
	_, err = io.ReadFull(host, reply)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 1, 1}, reply)

	cancel()
	require.NoError(t, wait(t, done))

	assert.True(t, s.Store().Has(5))
	assert.True(t, s.Store().Has(6))
	assert.NotEmpty(t, s.ID)
}

func TestSessionEndsWhenHostCloses(t *testing.T) {
	_, host, cancel, done := startSession(t, config.Default())
	defer cancel()

	require.NoError(t, host.Close())
	require.NoError(t, wait(t, done))
}

func TestSessionWithMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Listen = "127.0.0.1:0"

	_, host, cancel, done := startSession(t, cfg)
	defer host.Close()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.NoError(t, wait(t, done))
}
