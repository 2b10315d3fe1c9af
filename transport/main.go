/*
Package transport は、MPTCPセッションのサブフローとして使用するコネクションをまとめたパッケージです。

各実装はサブパッケージにあります。

  - mem: テストやシミュレーションで使うインメモリのコネクション
  - tcp: *net.TCPConn をラップした実際のTCPコネクション
*/
package transport

import (
	"io"

	"github.com/aptpod/mptcp-go/errors"
)

/*
Conn は以下のエラーを返します。
*/
var (
	// ErrAlreadyClosed は、コネクションが切れている場合に返されます。
	ErrAlreadyClosed = errors.ErrConnectionClosed

	EOF = io.EOF
)
