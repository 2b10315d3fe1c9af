//go:generate mockgen -destination ./${GOPACKAGE}mock/${GOFILE} -package ${GOPACKAGE}mock -source ./${GOFILE}
package transport

import (
	"net"
)

// Readerはサブフローからデータを読み出すインターフェースです。
type Reader interface {
	// Read は、サブフローからデータを読み出します。
	Read() ([]byte, error)
	// Close は、サブフローのコネクションを切断します。
	Close() error
	// RxBytesCounterValue は、現在の受信バイトカウンターの値を返します。
	RxBytesCounterValue() uint64
}

// Writerはサブフローへデータを書き込むインターフェースです。
type Writer interface {
	// Write は、サブフローへデータを書き込みます。
	Write([]byte) error
	// Close は、サブフローのコネクションを切断します。
	Close() error
	// TxBytesCounterValue は、現在の送信バイトカウンターの値を返します。
	TxBytesCounterValue() uint64
}

// ReadWriterはサブフローの読み書きのインターフェースです。
type ReadWriter interface {
	Reader
	Writer
}

/*
OptionConn は、単一パスのトランスポートコネクションに対するソケットオプションの操作プリミティブです。

エラーは errors.FromErrno で分類されたエラー、または syscall.Errno をラップしたエラーを返します。
*/
type OptionConn interface {
	// SetOption は、レベルとオプション名を指定して値を設定します。
	SetOption(level, name int, val []byte) error

	// GetOption は、レベルとオプション名を指定して値を buf に読み出し、書き込んだ長さを返します。
	//
	// buf が値より短い場合は切り詰めて書き込みます。
	GetOption(level, name int, buf []byte) (int, error)
}

/*
Conn は、MPTCPセッションを構成するサブフローのコネクションです。
*/
type Conn interface {
	ReadWriter
	OptionConn

	// LocalAddr は、ローカルアドレスを返します。
	LocalAddr() net.Addr

	// RemoteAddr は、リモートアドレスを返します。
	RemoteAddr() net.Addr
}
