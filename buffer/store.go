package buffer

import (
	"errors"
	"slices"

	"vdp/metrics"
	"vdp/protocol"
)

var (
	ErrReservedID     = errors.New("buffer id is reserved")
	ErrBufferExists   = errors.New("buffer already exists")
	ErrBufferNotFound = errors.New("buffer not found")
)

// Store maps buffer ids to ordered segment lists. Insertion order is the
// replay order. A Store belongs to one session and is only touched from the
// goroutine that drives the session's processor.
type Store struct {
	buffers map[uint16][]*Segment
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{buffers: make(map[uint16][]*Segment)}
}

// Write appends data as a new captured segment to id, creating the buffer
// when absent. It returns the number of segments now stored for id.
// BufferIDAll is refused; BufferIDDefault is accepted, only Create refuses it.
func (s *Store) Write(id uint16, data []byte) (int, error) {
	if id == protocol.BufferIDAll {
		return 0, ErrReservedID
	}
	if _, ok := s.buffers[id]; !ok {
		metrics.BuffersStored.Inc()
	}
	s.buffers[id] = append(s.buffers[id], NewCaptured(data))
	return len(s.buffers[id]), nil
}

// Create allocates a single zero-filled segment of size bytes as the only
// entry for id. The store is left unchanged when id is one of the reserved
// sentinels or when id already exists.
func (s *Store) Create(id uint16, size uint16) error {
	if id == protocol.BufferIDDefault || id == protocol.BufferIDAll {
		return ErrReservedID
	}
	if _, ok := s.buffers[id]; ok {
		return ErrBufferExists
	}
	s.buffers[id] = []*Segment{NewAllocated(int(size))}
	metrics.BuffersStored.Inc()
	return nil
}

// Clear removes the buffer for id. BufferIDAll empties the whole store.
func (s *Store) Clear(id uint16) error {
	if id == protocol.BufferIDAll {
		metrics.BuffersStored.Sub(float64(len(s.buffers)))
		clear(s.buffers)
		return nil
	}
	if _, ok := s.buffers[id]; !ok {
		return ErrBufferNotFound
	}
	delete(s.buffers, id)
	metrics.BuffersStored.Dec()
	return nil
}

// Lookup returns a copy of the segment list for id
func (s *Store) Lookup(id uint16) ([]*Segment, bool) {
	segs, ok := s.buffers[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(segs), true
}

// First returns segment 0 of id, the segment output is redirected into
func (s *Store) First(id uint16) (*Segment, bool) {
	segs, ok := s.buffers[id]
	if !ok || len(segs) == 0 {
		return nil, false
	}
	return segs[0], true
}

// Has reports whether id has an entry
func (s *Store) Has(id uint16) bool {
	_, ok := s.buffers[id]
	return ok
}

// Len returns the number of buffers stored
func (s *Store) Len() int {
	return len(s.buffers)
}

// IDs returns the stored ids in ascending order
func (s *Store) IDs() []uint16 {
	ids := make([]uint16, 0, len(s.buffers))
	for id := range s.buffers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
