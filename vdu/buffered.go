package vdu

import (
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	"vdp/buffer"
	"vdp/metrics"
	"vdp/protocol"
)

// bufferedNames labels sub-commands in logs and metrics
var bufferedNames = map[byte]string{
	protocol.BufferedWrite:     "write",
	protocol.BufferedCall:      "call",
	protocol.BufferedClear:     "clear",
	protocol.BufferedCreate:    "create",
	protocol.BufferedSetOutput: "set_output",
	protocol.BufferedAdjust:    "adjust",
	protocol.BufferedDebugInfo: "debug_info",
}

// ErrCallDepth is logged when a replay would exceed the configured depth
var ErrCallDepth = errors.New("call depth limit reached")

func record(command byte, outcome string) {
	name, ok := bufferedNames[command]
	if !ok {
		name = "unknown"
	}
	metrics.BufferedCommands.WithLabelValues(name, outcome).Inc()
}

// VDU 23, 0, &A0, bufferId; command: buffered command group.
// No sub-command failure is returned; each one degrades to a logged no-op.
func (p *Processor) sysBuffered() error {
	id, err := protocol.ReadWord(p.in)
	if err != nil {
		p.log.Debug("buffered: buffer id read aborted", zap.Error(err))
		return nil
	}
	command, err := p.in.ReadByte()
	if err != nil {
		p.log.Debug("buffered: command read aborted", zap.Uint16("buffer_id", id), zap.Error(err))
		return nil
	}

	switch command {
	case protocol.BufferedWrite:
		p.bufferWrite(id)
	case protocol.BufferedCall:
		p.bufferCall(id)
	case protocol.BufferedClear:
		p.bufferClear(id)
	case protocol.BufferedCreate:
		p.bufferCreate(id)
	case protocol.BufferedSetOutput:
		p.setOutput(id)
	case protocol.BufferedAdjust:
		p.bufferAdjust(id)
	case protocol.BufferedDebugInfo:
		p.bufferDebugInfo(id)
	default:
		record(command, metrics.OutcomeIgnored)
		p.log.Debug("buffered: unknown command",
			zap.Uint8("command", command), zap.Uint16("buffer_id", id))
	}
	return nil
}

// VDU 23, 0, &A0, bufferId; 0, length; data...: append a captured segment.
// Id 0 is accepted here even though create refuses it. Id 65535 is refused
// after its data has been consumed.
func (p *Processor) bufferWrite(id uint16) {
	length, err := protocol.ReadWord(p.in)
	if err != nil {
		record(protocol.BufferedWrite, metrics.OutcomeAborted)
		p.log.Debug("bufferWrite: length read aborted", zap.Uint16("buffer_id", id), zap.Error(err))
		return
	}
	data, err := protocol.ReadFull(p.in, int(length))
	if err != nil {
		record(protocol.BufferedWrite, metrics.OutcomeAborted)
		p.log.Debug("bufferWrite: data read aborted",
			zap.Uint16("buffer_id", id), zap.Uint16("length", length), zap.Error(err))
		return
	}

	count, err := p.store.Write(id, data)
	if err != nil {
		record(protocol.BufferedWrite, metrics.OutcomeRejected)
		p.log.Debug("bufferWrite: rejected", zap.Uint16("buffer_id", id), zap.Error(err))
		return
	}
	record(protocol.BufferedWrite, metrics.OutcomeApplied)
	metrics.CapturedBytes.Add(float64(length))
	p.log.Debug("bufferWrite: stored stream",
		zap.Uint16("buffer_id", id), zap.Uint16("length", length), zap.Int("streams", count))
}

// VDU 23, 0, &A0, bufferId; 1: replay every segment stored for bufferId.
// The nested processor inherits the current output destination and runs to
// completion before the caller reads its next command.
func (p *Processor) bufferCall(id uint16) {
	segs, ok := p.store.Lookup(id)
	if !ok {
		record(protocol.BufferedCall, metrics.OutcomeRejected)
		p.log.Debug("bufferCall: buffer not found", zap.Uint16("buffer_id", id))
		return
	}
	if p.maxDepth > 0 && p.depth+1 > p.maxDepth {
		record(protocol.BufferedCall, metrics.OutcomeRejected)
		p.log.Warn("bufferCall: refused",
			zap.Uint16("buffer_id", id), zap.Int("depth", p.depth), zap.Error(ErrCallDepth))
		return
	}

	view := buffer.NewView(segs)
	record(protocol.BufferedCall, metrics.OutcomeApplied)
	metrics.ReplayDepth.Observe(float64(p.depth + 1))
	p.log.Debug("bufferCall: replaying",
		zap.Uint16("buffer_id", id),
		zap.Int("streams", view.Segments()),
		zap.Int("bytes", view.Len()),
		zap.Int("depth", p.depth+1))

	p.nested(view).ProcessAll()
}

// VDU 23, 0, &A0, bufferId; 2: remove bufferId, or every buffer for 65535
func (p *Processor) bufferClear(id uint16) {
	if err := p.store.Clear(id); err != nil {
		record(protocol.BufferedClear, metrics.OutcomeRejected)
		p.log.Debug("bufferClear: buffer not found", zap.Uint16("buffer_id", id))
		return
	}
	record(protocol.BufferedClear, metrics.OutcomeApplied)
	p.log.Debug("bufferClear: cleared", zap.Uint16("buffer_id", id))
}

// VDU 23, 0, &A0, bufferId; 3, size;: create a zeroed writable buffer
func (p *Processor) bufferCreate(id uint16) {
	size, err := protocol.ReadWord(p.in)
	if err != nil {
		record(protocol.BufferedCreate, metrics.OutcomeAborted)
		p.log.Debug("bufferCreate: size read aborted", zap.Uint16("buffer_id", id), zap.Error(err))
		return
	}
	if err := p.store.Create(id, size); err != nil {
		record(protocol.BufferedCreate, metrics.OutcomeRejected)
		p.log.Debug("bufferCreate: rejected", zap.Uint16("buffer_id", id), zap.Error(err))
		return
	}
	record(protocol.BufferedCreate, metrics.OutcomeApplied)
	p.log.Debug("bufferCreate: created", zap.Uint16("buffer_id", id), zap.Uint16("size", size))
}

// VDU 23, 0, &A0, bufferId; 4: set output. 65535 discards output, 0
// restores the original destination, any other id aliases its segment 0.
func (p *Processor) setOutput(id uint16) {
	switch id {
	case protocol.BufferIDAll:
		p.out.SetNull()
	case protocol.BufferIDDefault:
		p.out.SetDefault()
	default:
		if err := p.out.SetAlias(p.store, id); err != nil {
			record(protocol.BufferedSetOutput, metrics.OutcomeRejected)
			p.log.Debug("setOutput: buffer not found", zap.Uint16("buffer_id", id))
			return
		}
	}
	record(protocol.BufferedSetOutput, metrics.OutcomeApplied)
	dest, _ := p.out.Destination()
	p.log.Debug("setOutput: switched", zap.Uint16("buffer_id", id), zap.Stringer("destination", dest))
}

// VDU 23, 0, &A0, bufferId; 5: adjust buffer contents.
// TODO: define operand layouts for overwrite, increment and conditional
// call before consuming any bytes here.
func (p *Processor) bufferAdjust(id uint16) {
	record(protocol.BufferedAdjust, metrics.OutcomeIgnored)
	p.log.Debug("bufferAdjust: not implemented", zap.Uint16("buffer_id", id))
}

// VDU 23, 0, &A0, bufferId; &10: log the segments held for bufferId
func (p *Processor) bufferDebugInfo(id uint16) {
	segs, ok := p.store.Lookup(id)
	if !ok {
		record(protocol.BufferedDebugInfo, metrics.OutcomeRejected)
		p.log.Debug("bufferDebugInfo: buffer not found", zap.Uint16("buffer_id", id))
		return
	}
	record(protocol.BufferedDebugInfo, metrics.OutcomeApplied)
	fields := []zap.Field{
		zap.Uint16("buffer_id", id),
		zap.Int("streams", len(segs)),
		zap.Stringer("kind", segs[0].Kind()),
		zap.String("data", hex.EncodeToString(segs[0].Bytes())),
	}
	if segs[0].Writable() {
		fields = append(fields, zap.Int("position", segs[0].Position()))
	}
	p.log.Info("bufferDebugInfo", fields...)
}
