/*
Package mptcp は、MPTCPセッションのソケットオプション同期とサブフローへの一斉適用を行うライブラリです。

アプリケーションがセッションに対して設定したソケットオプションは、セッションにキャッシュされ、
オプションの種類に応じて全てのサブフロー、または最初のサブフローへ適用されます。
後から参加したサブフローは、最初に使用される前にセッションの設定へ同期されます。

ここではセッションの利用までの一連の流れについて説明します。

# Create Session

インメモリのサブフローを使ってセッションを作成し、オプションを設定するサンプルです。

	package main

	import (
		"context"
		"log"
		"net"

		"github.com/aptpod/mptcp-go/abi"
		"github.com/aptpod/mptcp-go/mptcp"
		"github.com/aptpod/mptcp-go/transport/mem"
	)

	func main() {
		ctx := context.Background()
		sess, err := mptcp.NewSession(mptcp.WithSessionState(mptcp.StateEstablished))
		if err != nil {
			log.Fatal(err)
		}
		defer sess.Close(ctx)

		remote := &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 443}
		for i := 0; i < 2; i++ {
			conn := mem.New(mem.Config{LocalAddr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, byte(i+1))}}, remote)
			sf, err := sess.AddSubflow(ctx, conn)
			if err != nil {
				log.Fatal(err)
			}
			// 追加したサブフローはセッションの設定に同期してから使用します。
			if err := sess.SyncSubflow(ctx, sf); err != nil {
				log.Fatal(err)
			}
		}

		// TCP_NODELAY は全てのサブフローに適用され、セッションのシーケンスが進みます。
		if err := sess.SetOption(ctx, abi.SOL_TCP, abi.TCP_NODELAY, abi.PutInt32(1)); err != nil {
			log.Fatal(err)
		}
		log.Printf("session seq: %s", sess.Seq())
	}

# Query Session

SOL_MPTCP の問い合わせで、セッションとサブフローの情報を取得します。

	b := make([]byte, abi.SizeOfMPTCPInfo)
	if err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_INFO, mptcp.NewBuffer(b)); err != nil {
		log.Fatal(err)
	}
	var info abi.MPTCPInfo
	info.UnmarshalBytes(b)
	log.Printf("subflows: %d token: %#x", info.Subflows, info.Token)

# Schedule Subflows

transport/multi の Transport は、書き込みのたびにサブフローを選択し、書き込む前にサブフローを同期します。

	mt, err := multi.NewTransport(multi.TransportConfig{
		Session:  sess,
		Selector: multi.NewMinRTTSelector(),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer mt.Close()

	if err := mt.Write([]byte("hello")); err != nil {
		log.Fatal(err)
	}
*/
package mptcp

// Version は、このライブラリのバージョンです。
const Version = "v0.1.0"
