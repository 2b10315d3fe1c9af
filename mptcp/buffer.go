package mptcp

import (
	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/usermem"
)

/*
Bufferは、GetOption の値バッファです。

Len は呼び出し時にバッファの長さを、成功時に書き込んだ長さを表します。
失敗した場合、Len は変更されません。
*/
type Buffer struct {
	Mem  usermem.IO
	Addr uint64
	Len  int
}

// NewBufferは、b をアドレス0から始まるメモリとして扱う Buffer を返却します。
//
// 書き込まれた値は b[:Len] で参照できます。
func NewBuffer(b []byte) *Buffer {
	return &Buffer{
		Mem: &usermem.BytesIO{Bytes: b},
		Len: len(b),
	}
}

func (b *Buffer) copyOut(off uint64, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	return b.Mem.CopyOut(b.Addr+off, src)
}

func (b *Buffer) copyIn(off uint64, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	return b.Mem.CopyIn(b.Addr+off, dst)
}

// write は、src を先頭に書き込み、Len を len(src) にします。
func (b *Buffer) write(src []byte) error {
	if err := b.copyOut(0, src); err != nil {
		return err
	}
	b.Len = len(src)
	return nil
}

// writeTrunc は、src を Len で切り詰めて書き込みます。
func (b *Buffer) writeTrunc(src []byte) error {
	if b.Len < 0 {
		return errors.Errorf("negative length: %w", errors.ErrInvalidArgument)
	}
	if b.Len < len(src) {
		src = src[:b.Len]
	}
	return b.write(src)
}

/*
putInt は、int値を書き込みます。

Len が1から3で値が0から255の場合は1バイトのみ書き込みます。
それ以外は、Len を最大4として切り詰めたint値を書き込みます。
*/
func (b *Buffer) putInt(v int32) error {
	if b.Len < 0 {
		return errors.Errorf("negative length: %w", errors.ErrInvalidArgument)
	}
	if b.Len > 0 && b.Len < abi.SizeOfInt32 && v >= 0 && v <= 255 {
		return b.write([]byte{byte(v)})
	}
	return b.writeTrunc(abi.PutInt32(v))
}

func (b *Buffer) putBool(v bool) error {
	if v {
		return b.putInt(1)
	}
	return b.putInt(0)
}
