// Package usermem は、ソケットオプションの呼び出し元が所有するメモリ空間へのアクセスを抽象化します。
//
// getsockopt/setsockopt の値バッファや、MPTCP_FULL_INFO のように構造体内に埋め込まれた
// ポインタが指す配列は、いずれもこのパッケージの IO を通して読み書きします。
package usermem

import (
	"fmt"
	"sync"

	"github.com/aptpod/mptcp-go/errors"
)

// IOは、呼び出し元のアドレス空間への読み書きを提供します。
//
// CopyIn/CopyOut は不可分です。範囲外のアクセスを含む場合は、一切の読み書きを行わず
// errors.ErrAccessFault をラップしたエラーを返却します。
type IO interface {
	CopyIn(addr uint64, dst []byte) error
	CopyOut(addr uint64, src []byte) error
}

// BytesIOは、バイトスライスをアドレス0から始まるアドレス空間として扱うIOの実装です。
type BytesIO struct {
	mu    sync.Mutex
	Bytes []byte
}

// NewBytesIOは、size バイトのゼロ埋めされたアドレス空間を返却します。
func NewBytesIO(size int) *BytesIO {
	return &BytesIO{Bytes: make([]byte, size)}
}

// CopyIn implements IO.CopyIn.
func (b *BytesIO) CopyIn(addr uint64, dst []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, err := b.rangeCheck(addr, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b.Bytes[start:])
	return nil
}

// CopyOut implements IO.CopyOut.
func (b *BytesIO) CopyOut(addr uint64, src []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, err := b.rangeCheck(addr, len(src))
	if err != nil {
		return err
	}
	copy(b.Bytes[start:], src)
	return nil
}

func (b *BytesIO) rangeCheck(addr uint64, length int) (int, error) {
	if length == 0 {
		return 0, nil
	}
	end := addr + uint64(length)
	if end < addr || end > uint64(len(b.Bytes)) {
		return 0, fmt.Errorf("address 0x%x length %d: %w", addr, length, errors.ErrAccessFault)
	}
	return int(addr), nil
}

// FaultIOは、全てのアクセスで errors.ErrAccessFault を返すIOです。
type FaultIO struct{}

// CopyIn implements IO.CopyIn.
func (FaultIO) CopyIn(addr uint64, _ []byte) error {
	return fmt.Errorf("address 0x%x: %w", addr, errors.ErrAccessFault)
}

// CopyOut implements IO.CopyOut.
func (FaultIO) CopyOut(addr uint64, _ []byte) error {
	return fmt.Errorf("address 0x%x: %w", addr, errors.ErrAccessFault)
}
