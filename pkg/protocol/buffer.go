package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// writer accumulates a frame in host byte order. The protocol is
// intentionally restricted to peers sharing an architecture; see
// Encode's doc comment.
type writer struct {
	buf []byte
}

func (w *writer) writeString(s string) {
	var lenBuf [4]byte
	binary.NativeEndian.PutUint32(lenBuf[:], uint32(len(s)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, s...)
}

func (w *writer) writeBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *writer) writeUint32(v uint32) {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) writeInt32(v int32) {
	w.writeUint32(uint32(v))
}

func (w *writer) writeFloat64(v float64) {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

// reader consumes a frame in host byte order, failing with
// ErrMalformedFrame on any out-of-bounds access.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, r.off, ErrMalformedFrame)
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(b), nil
}

func (r *reader) readInt32() (int32, error) {
	v, err := r.readUint32()
	return int32(v), err
}

func (r *reader) readFloat64() (float64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(b)), nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	b, err := r.readN(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}
