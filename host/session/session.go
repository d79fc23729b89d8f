// Package session runs one coprocessor session: a serial link, the buffer
// store that lives as long as the link, and the command processor.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vdp/buffer"
	"vdp/config"
	"vdp/host/serial"
	"vdp/metrics"
	"vdp/vdu"
)

// Session owns the port, store and processor of one connection
type Session struct {
	ID string

	cfg   *config.Config
	port  serial.Port
	src   *serial.Source
	store *buffer.Store
	proc  *vdu.Processor
	log   *zap.Logger
}

// New builds a session over an open port. Replies and unredirected output
// go back out through the same port.
func New(cfg *config.Config, port serial.Port, renderer vdu.Renderer, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	store := buffer.NewStore()
	src := serial.NewSource(port, cfg.Serial.FifoSize)
	proc := vdu.New(src, port, store, vdu.Options{
		Renderer:     renderer,
		Logger:       logger,
		MaxCallDepth: cfg.VDU.MaxCallDepth,
	})

	return &Session{
		ID:    id,
		cfg:   cfg,
		port:  port,
		src:   src,
		store: store,
		proc:  proc,
		log:   logger,
	}
}

// Open opens the serial device named in cfg and builds a session on it
func Open(cfg *config.Config, renderer vdu.Renderer, logger *zap.Logger) (*Session, error) {
	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: time.Duration(cfg.Serial.ReadTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, port, renderer, logger), nil
}

// Store returns the session's buffer store. It must not be used while Run
// is in progress.
func (s *Session) Store() *buffer.Store {
	return s.store
}

// Processor returns the top-level command processor
func (s *Session) Processor() *vdu.Processor {
	return s.proc
}

// Run processes commands until ctx is cancelled or the link fails. The port
// is closed when Run returns. Cancellation is not an error.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	s.log.Info("session started",
		zap.Int("max_call_depth", s.cfg.VDU.MaxCallDepth),
		zap.String("metrics", s.cfg.Metrics.Listen))

	g.Go(func() error {
		defer cancel()
		err := s.proc.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})

	// closing the port unblocks a read that has no timeout
	g.Go(func() error {
		<-gctx.Done()
		if err := s.port.Close(); err != nil {
			return fmt.Errorf("failed to close port: %w", err)
		}
		return nil
	})

	if s.cfg.Metrics.Listen != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, s.cfg.Metrics.Listen)
		})
	}

	err := g.Wait()
	s.log.Info("session ended",
		zap.Int("buffers", s.store.Len()),
		zap.Int("unread_bytes", s.src.Buffered()),
		zap.Error(err))
	return err
}
