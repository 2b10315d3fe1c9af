package abi

import (
	"encoding/binary"

	"github.com/josharian/native"
)

// ByteOrder は、カーネル構造体のバイトオーダー（ホストのバイトオーダー）です。
var ByteOrder binary.ByteOrder = native.Endian

// Marshallable は、カーネル構造体とバイト列を相互変換できる型です。
//
// MarshalBytes/UnmarshalBytes に渡すバイト列は SizeBytes() 以上の長さが必要です。
type Marshallable interface {
	SizeBytes() int
	MarshalBytes(dst []byte)
	UnmarshalBytes(src []byte)
}

// Marshal は、mをSizeBytes()長のバイト列に変換します。
func Marshal(m Marshallable) []byte {
	b := make([]byte, m.SizeBytes())
	m.MarshalBytes(b)
	return b
}

// PutInt32 は、int値をsetsockopt/getsockopt形式の4バイトに変換します。
func PutInt32(v int32) []byte {
	b := make([]byte, SizeOfInt32)
	ByteOrder.PutUint32(b, uint32(v))
	return b
}

// Int32 は、先頭4バイトをint値として読み出します。
func Int32(b []byte) int32 {
	return int32(ByteOrder.Uint32(b[:SizeOfInt32]))
}

// PutBool は、真偽値をint形式の4バイトに変換します。
func PutBool(v bool) []byte {
	if v {
		return PutInt32(1)
	}
	return PutInt32(0)
}

type writer struct {
	b   []byte
	off int
}

func (w *writer) u8(v uint8) {
	w.b[w.off] = v
	w.off++
}

func (w *writer) u16(v uint16) {
	ByteOrder.PutUint16(w.b[w.off:], v)
	w.off += 2
}

func (w *writer) u32(v uint32) {
	ByteOrder.PutUint32(w.b[w.off:], v)
	w.off += 4
}

func (w *writer) u64(v uint64) {
	ByteOrder.PutUint64(w.b[w.off:], v)
	w.off += 8
}

func (w *writer) pad(n int) {
	for i := 0; i < n; i++ {
		w.b[w.off+i] = 0
	}
	w.off += n
}

type reader struct {
	b   []byte
	off int
}

func (r *reader) u8() uint8 {
	v := r.b[r.off]
	r.off++
	return v
}

func (r *reader) u16() uint16 {
	v := ByteOrder.Uint16(r.b[r.off:])
	r.off += 2
	return v
}

func (r *reader) u32() uint32 {
	v := ByteOrder.Uint32(r.b[r.off:])
	r.off += 4
	return v
}

func (r *reader) u64() uint64 {
	v := ByteOrder.Uint64(r.b[r.off:])
	r.off += 8
	return v
}

func (r *reader) skip(n int) {
	r.off += n
}
