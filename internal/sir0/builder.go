package sir0

import "encoding/binary"

// Builder assembles a container in two passes: regions are written first
// while the caller records their start offsets, then the subheader is
// written referencing those offsets. Offsets are absolute, never in-memory
// pointers, so a built container is relocatable as-is.
type Builder struct {
	buf []byte
}

// NewBuilder returns a builder with the header reserved; the first Write
// lands at the start of the data region.
func NewBuilder() *Builder {
	b := &Builder{buf: make([]byte, HeaderSize)}
	copy(b.buf, magic)
	return b
}

// Offset returns the offset the next write will land at.
func (b *Builder) Offset() int64 { return int64(len(b.buf)) }

// Write appends p and returns the offset it was written at.
func (b *Builder) Write(p []byte) int64 {
	off := b.Offset()
	b.buf = append(b.buf, p...)
	return off
}

// Align pads with zero bytes until the length is a multiple of n.
func (b *Builder) Align(n int) { b.AlignFill(n, 0x00) }

// AlignFill pads with the given sentinel byte until the length is a
// multiple of n. Spawn tables pad with 0xFF.
func (b *Builder) AlignFill(n int, fill byte) {
	for len(b.buf)%n != 0 {
		b.buf = append(b.buf, fill)
	}
}

// WritePointer appends an 8-byte little-endian absolute offset.
func (b *Builder) WritePointer(v int64) int64 { return b.WriteInt64(v) }

// WriteInt64 appends a little-endian int64 and returns its offset.
func (b *Builder) WriteInt64(v int64) int64 {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return b.Write(tmp[:])
}

// WriteInt32 appends a little-endian int32 and returns its offset.
func (b *Builder) WriteInt32(v int32) int64 {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return b.Write(tmp[:])
}

// WriteInt16 appends a little-endian int16 and returns its offset.
func (b *Builder) WriteInt16(v int16) int64 {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(v))
	return b.Write(tmp[:])
}

// Finish stamps the subheader offset into the header and returns the
// completed buffer. The builder must not be used afterwards.
func (b *Builder) Finish(subheaderOffset int64) []byte {
	binary.LittleEndian.PutUint64(b.buf[subheaderField:], uint64(subheaderOffset))
	return b.buf
}
