// Package sir0 reads and writes the relocatable container blobs the game
// wraps its fixed-layout tables in. A container is a small header, a data
// region, and a subheader holding absolute byte offsets ("pointers") into
// the buffer. The pointer count is not self-describing; the record codec
// sitting above knows the layout for each entry kind.
package sir0

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is where the data region starts.
	HeaderSize = 0x10

	magic          = "SIR0"
	subheaderField = 0x08

	// PointerSize is the width of a subheader pointer field.
	PointerSize = 8
)

// MalformedContainerError reports a pointer or region that falls outside
// the container buffer during parse.
type MalformedContainerError struct {
	Offset int64
	Length int
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed container: %s (offset %#x, buffer %#x bytes)", e.Reason, e.Offset, e.Length)
}

// Container is a parsed view over a raw blob. All accessors return slices
// of the original buffer; nothing is copied.
type Container struct {
	buf       []byte
	subheader int64
}

// Parse validates the header and locates the subheader. It does not read
// any pointers; callers ask for the count their record kind defines.
func Parse(buf []byte) (*Container, error) {
	if len(buf) < HeaderSize {
		return nil, &MalformedContainerError{Offset: 0, Length: len(buf), Reason: "buffer shorter than header"}
	}
	if string(buf[0:4]) != magic {
		return nil, &MalformedContainerError{Offset: 0, Length: len(buf), Reason: "bad magic"}
	}
	sub := int64(binary.LittleEndian.Uint64(buf[subheaderField:]))
	if sub < HeaderSize || sub > int64(len(buf)) {
		return nil, &MalformedContainerError{Offset: sub, Length: len(buf), Reason: "subheader offset out of bounds"}
	}
	return &Container{buf: buf, subheader: sub}, nil
}

// Bytes returns the whole underlying buffer.
func (c *Container) Bytes() []byte { return c.buf }

// SubheaderOffset returns the absolute offset of the subheader.
func (c *Container) SubheaderOffset() int64 { return c.subheader }

// Pointers reads n pointer fields from the start of the subheader.
func (c *Container) Pointers(n int) ([]int64, error) {
	end := c.subheader + int64(n*PointerSize)
	if end > int64(len(c.buf)) {
		return nil, &MalformedContainerError{Offset: end, Length: len(c.buf), Reason: "subheader pointer array out of bounds"}
	}
	ptrs := make([]int64, n)
	for i := range ptrs {
		ptrs[i] = int64(binary.LittleEndian.Uint64(c.buf[c.subheader+int64(i*PointerSize):]))
	}
	return ptrs, nil
}

// Region returns the slice [start, end) of the buffer.
func (c *Container) Region(start, end int64) ([]byte, error) {
	if start < 0 || end < start || end > int64(len(c.buf)) {
		return nil, &MalformedContainerError{Offset: start, Length: len(c.buf), Reason: "region out of bounds"}
	}
	return c.buf[start:end], nil
}

// Int32At reads a little-endian int32 at an absolute offset. Used for the
// count fields that precede nested pointer tables.
func (c *Container) Int32At(off int64) (int32, error) {
	if off < 0 || off+4 > int64(len(c.buf)) {
		return 0, &MalformedContainerError{Offset: off, Length: len(c.buf), Reason: "int32 field out of bounds"}
	}
	return int32(binary.LittleEndian.Uint32(c.buf[off:])), nil
}

// Int64At reads a little-endian int64 at an absolute offset.
func (c *Container) Int64At(off int64) (int64, error) {
	if off < 0 || off+8 > int64(len(c.buf)) {
		return 0, &MalformedContainerError{Offset: off, Length: len(c.buf), Reason: "int64 field out of bounds"}
	}
	return int64(binary.LittleEndian.Uint64(c.buf[off:])), nil
}
