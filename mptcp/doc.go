/*
Package mptcp は、MPTCPセッションのソケットオプションをサブフローへ伝搬するエンジンです。

セッションに対する setsockopt/getsockopt 相当の操作を受け付け、値をセッションにキャッシュしたうえで、
オプションの種類に応じて全てのサブフロー、または最初のサブフローに適用します。

# 設定の伝搬

SetOption はオプションを次のいずれかに振り分けます。振り分けは DispatchOf で参照できます。

  - PolicyFanout: 現在の全てのサブフローへ適用します。
  - PolicyFirstSubflow: 最初のサブフローにのみ適用します。
  - PolicySession: セッションにのみ保持します。
  - PolicyNoop: 受け付けますが何もしません。
  - PolicyReject: 許可リストには存在しますが、設定はできません。

# シーケンスと遅延同期

セッションの設定が変わるたびにセッションのシーケンスが進み、適用に成功したサブフローには
同じシーケンスが記録されます。後から追加されたサブフローや、適用に失敗したサブフローは
シーケンスが一致しないため、SyncSubflow でセッションの設定が全て再適用されます。

	sess, _ := mptcp.NewSession()
	sf, _ := sess.AddSubflow(ctx, conn)
	_ = sess.SetOption(ctx, abi.SOL_TCP, abi.TCP_NODELAY, abi.PutInt32(1))
	// 送受信の前に同期する
	if err := sess.SyncSubflow(ctx, sf); err != nil {
		log.Printf("sync: %v", err)
	}

# 問い合わせ

GetOption の SOL_MPTCP は、MPTCP_INFO、MPTCP_TCPINFO、MPTCP_SUBFLOW_ADDRS、MPTCP_FULL_INFO を
Linux と同じバイナリ形式で返却します。呼び出し元のバッファが小さい場合はエラーにせず、
返却するサイズと件数で切り詰めを通知します。
*/
package mptcp
