package uasset

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// reader is a little-endian cursor over a package file's bytes. The first
// failed read latches err; subsequent reads return zero values so parsing
// code stays linear and checks the error once per section.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format+" at offset %d", append(args, r.off)...)
	}
}

func (r *reader) seek(off int) {
	if r.err != nil {
		return
	}
	if off < 0 || off > len(r.data) {
		r.fail("seek target %d out of bounds", off)
		return
	}
	r.off = off
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.fail("truncated read of %d bytes", n)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

func (r *reader) i64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *reader) b32() bool {
	return r.i32() != 0
}

func (r *reader) skip(n int) {
	r.take(n)
}

// fstring reads a length-prefixed string: positive length is NUL-terminated
// ASCII, negative length is NUL-terminated UTF-16LE with |length| code units.
func (r *reader) fstring() string {
	n := r.i32()
	switch {
	case r.err != nil || n == 0:
		return ""
	case n > 0:
		b := r.take(int(n))
		if b == nil {
			return ""
		}
		return string(b[:n-1])
	default:
		units := int(-n)
		b := r.take(units * 2)
		if b == nil {
			return ""
		}
		u := make([]uint16, units-1)
		for i := range u {
			u[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
		return string(utf16.Decode(u))
	}
}
