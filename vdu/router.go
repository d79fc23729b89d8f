package vdu

import (
	"io"

	"vdp/buffer"
	"vdp/protocol"
)

// Destination identifies what the router currently writes to
type Destination uint8

const (
	// DestDefault is the destination the router was built with
	DestDefault Destination = iota
	// DestNull discards every write
	DestNull
	// DestBuffer aliases segment 0 of a stored buffer
	DestBuffer
)

func (d Destination) String() string {
	switch d {
	case DestDefault:
		return "default"
	case DestNull:
		return "null"
	case DestBuffer:
		return "buffer"
	}
	return "unknown"
}

// Router holds the one active output destination of a processor and the
// original destination that set-output 0 returns to.
type Router struct {
	original     io.Writer
	originalDest Destination
	originalID   uint16

	current  io.Writer
	dest     Destination
	bufferID uint16
}

// NewRouter creates a router writing to original. A nil original discards.
func NewRouter(original io.Writer) *Router {
	if original == nil {
		original = io.Discard
	}
	return &Router{
		original: original,
		current:  original,
	}
}

// Child creates the router of a nested replay. Its original destination is
// whatever r currently writes to, so redirection is inherited and a
// set-output 0 inside the replay returns to the caller's destination.
func (r *Router) Child() *Router {
	return &Router{
		original:     r.current,
		originalDest: r.dest,
		originalID:   r.bufferID,
		current:      r.current,
		dest:         r.dest,
		bufferID:     r.bufferID,
	}
}

// SetDefault restores the original destination
func (r *Router) SetDefault() {
	r.current = r.original
	r.dest = r.originalDest
	r.bufferID = r.originalID
}

// SetNull discards all subsequent writes
func (r *Router) SetNull() {
	r.current = io.Discard
	r.dest = DestNull
	r.bufferID = protocol.BufferIDAll
}

// SetAlias redirects output into segment 0 of buffer id. When id is not
// stored the current destination is kept and buffer.ErrBufferNotFound is
// returned.
func (r *Router) SetAlias(store *buffer.Store, id uint16) error {
	seg, ok := store.First(id)
	if !ok {
		return buffer.ErrBufferNotFound
	}
	r.current = seg
	r.dest = DestBuffer
	r.bufferID = id
	return nil
}

// Current returns the active destination
func (r *Router) Current() io.Writer {
	return r.current
}

// Destination returns the kind of the active destination and, for
// DestBuffer, the aliased buffer id.
func (r *Router) Destination() (Destination, uint16) {
	return r.dest, r.bufferID
}

// Write sends p to the active destination
func (r *Router) Write(p []byte) (int, error) {
	return r.current.Write(p)
}
