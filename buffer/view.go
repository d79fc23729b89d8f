package buffer

import "io"

// View reads a list of segments as one byte stream. The segment list is
// copied when the view is built, so buffers written or cleared while a
// replay is running do not change what the replay iterates.
type View struct {
	segments []*Segment
	seg      int
	off      int
}

// NewView creates a view over a snapshot of segments
func NewView(segments []*Segment) *View {
	snapshot := make([]*Segment, len(segments))
	copy(snapshot, segments)
	return &View{segments: snapshot}
}

// ReadByte returns the next byte of the concatenated stream, or io.EOF
// once every segment has been consumed.
func (v *View) ReadByte() (byte, error) {
	for v.seg < len(v.segments) {
		s := v.segments[v.seg]
		if v.off < s.Len() {
			b := s.ByteAt(v.off)
			v.off++
			return b, nil
		}
		v.seg++
		v.off = 0
	}
	return 0, io.EOF
}

// Len returns the total length of the concatenated stream
func (v *View) Len() int {
	n := 0
	for _, s := range v.segments {
		n += s.Len()
	}
	return n
}

// Segments returns the number of segments in the snapshot
func (v *View) Segments() int {
	return len(v.segments)
}
