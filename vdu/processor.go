// Package vdu interprets the VDU command stream: the top-level loop that
// routes system commands and rendering codes, the buffered command group
// and recursive buffer replay.
package vdu

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"vdp/buffer"
	"vdp/metrics"
	"vdp/protocol"
)

// Options configures a Processor
type Options struct {
	// Renderer receives non-system codes. Defaults to NopRenderer.
	Renderer Renderer
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// MaxCallDepth bounds nested replays. Zero leaves recursion unbounded,
	// so a buffer that calls itself runs until the stack is exhausted.
	MaxCallDepth int
}

// Processor consumes commands from one input source. Nested replays run in
// their own Processor that shares the store, registry and renderer.
type Processor struct {
	in       protocol.Source
	out      *Router
	store    *buffer.Store
	registry *Registry
	renderer Renderer
	log      *zap.Logger
	depth    int
	maxDepth int
}

// New creates a top-level processor reading in and writing replies to out
func New(in protocol.Source, out io.Writer, store *buffer.Store, opts Options) *Processor {
	if opts.Renderer == nil {
		opts.Renderer = NopRenderer{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	p := &Processor{
		in:       in,
		out:      NewRouter(out),
		store:    store,
		registry: NewRegistry(),
		renderer: opts.Renderer,
		log:      opts.Logger,
		maxDepth: opts.MaxCallDepth,
	}
	registerSystemCommands(p.registry)
	p.log.Debug("processor ready",
		zap.Strings("system_commands", p.registry.Names()),
		zap.Int("max_call_depth", p.maxDepth))
	return p
}

// nested builds the processor that replays a buffer view
func (p *Processor) nested(view *buffer.View) *Processor {
	return &Processor{
		in:       view,
		out:      p.out.Child(),
		store:    p.store,
		registry: p.registry,
		renderer: p.renderer,
		log:      p.log,
		depth:    p.depth + 1,
		maxDepth: p.maxDepth,
	}
}

// Store returns the buffer store shared by this processor
func (p *Processor) Store() *buffer.Store {
	return p.store
}

// Router returns the output router of this processor
func (p *Processor) Router() *Router {
	return p.out
}

// Registry returns the system command table
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Depth returns the replay nesting depth, zero at top level
func (p *Processor) Depth() int {
	return p.depth
}

// Run processes commands until the input is exhausted or ctx is done.
// Read timeouts between commands are waited out. A transport error other
// than timeout or EOF ends the run.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := p.ProcessNext()
		switch {
		case err == nil, protocol.IsTimeout(err):
		case protocol.IsEnd(err):
			return nil
		default:
			return fmt.Errorf("command stream: %w", err)
		}
	}
}

// ProcessAll processes commands until the input is exhausted. Timeouts are
// treated as the end of input.
func (p *Processor) ProcessAll() {
	for {
		if err := p.ProcessNext(); err != nil {
			if !protocol.IsEnd(err) && !protocol.IsTimeout(err) {
				p.log.Warn("command stream ended", zap.Error(err), zap.Int("depth", p.depth))
			}
			return
		}
	}
}

// ProcessNext reads and executes one top-level command. Only errors from
// reading the leading code are returned; everything after that degrades to
// a logged no-op.
func (p *Processor) ProcessNext() error {
	code, err := p.in.ReadByte()
	if err != nil {
		return err
	}
	if code != protocol.VDUSystem {
		p.render(code, p.in)
		return nil
	}

	mode, err := p.in.ReadByte()
	if err != nil {
		p.log.Debug("vdu 23: mode read aborted", zap.Error(err))
		return nil
	}
	if mode != protocol.VDUSystemMode {
		p.render(code, &prefixSource{pending: []byte{mode}, next: p.in})
		return nil
	}

	sys, err := p.in.ReadByte()
	if err != nil {
		p.log.Debug("vdu 23,0: command read aborted", zap.Error(err))
		return nil
	}
	if cmd, ok := p.registry.Get(sys); ok {
		metrics.SystemCommands.WithLabelValues(cmd.Name).Inc()
	}
	if err := p.registry.Dispatch(sys, p); err != nil {
		p.log.Debug("vdu 23,0: command failed", zap.Uint8("command", sys), zap.Error(err))
	}
	return nil
}

func (p *Processor) render(code byte, in protocol.Source) {
	if err := p.renderer.Render(code, in, p.out); err != nil {
		p.log.Debug("render failed", zap.Uint8("code", code), zap.Error(err))
	}
}

func registerSystemCommands(r *Registry) {
	r.Register(protocol.SysGeneralPoll, "general_poll", (*Processor).sysGeneralPoll)
	r.Register(protocol.SysBuffered, "buffered", (*Processor).sysBuffered)
}

// VDU 23, 0, &80, n: general poll, echoes n back to the host
func (p *Processor) sysGeneralPoll() error {
	n, err := p.in.ReadByte()
	if err != nil {
		return fmt.Errorf("general poll: %w", err)
	}
	return protocol.WritePacket(p.out, protocol.PacketGeneralPoll, []byte{n})
}
