/*
Package multi は、MPTCPセッションのサブフローを束ねて1本のコネクションとして読み書きするスケジューラです。

# 概要

multi.Transport は mptcp.Session のサブフローを管理し、書き込みのたびに SubflowSelector で
サブフローを選択します。選択したサブフローには、書き込む前に必ず mptcp.Session.SyncSubflow を呼び出します。
後から参加したサブフローや、ファンアウトに失敗したサブフローは、この時点でセッションの設定に追いつきます。

# SubflowSelector

	type SubflowSelector interface {
	    Get(bsSize int64) uint32
	}

提供されている実装:
  - RoundRobinSelector: サブフローを順番に選択
  - ByteBalancedSelector: 累積送信バイト数が最も少ないサブフローを選択
  - MinRTTSelector: 送信可能なサブフローのうち最小RTTが最も小さいものを選択

MinRTTSelector は MetricsUpdater を実装しており、Transport が metrics.TCPInfoProvider で
読み出した TCP_INFO のメトリクスを定期的に受け取ります。

# 使用例

	sess, _ := mptcp.NewSession()
	mt, err := multi.NewTransport(multi.TransportConfig{
	    Session:  sess,
	    Selector: multi.NewMinRTTSelector(),
	})
	if err != nil {
	    return err
	}
	defer mt.Close()

	if _, err := mt.AddSubflow(ctx, conn); err != nil {
	    return err
	}
	if err := mt.Write(data); err != nil {
	    return err
	}
*/
package multi
