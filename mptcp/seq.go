package mptcp

import "fmt"

// Stateは、セッションの接続状態です。値は tcp_info の tcpi_state と同じです。
type State uint8

const (
	StateEstablished State = 1
	StateSynSent     State = 2
	StateSynRecv     State = 3
	StateFinWait1    State = 4
	StateFinWait2    State = 5
	StateTimeWait    State = 6
	StateClose       State = 7
	StateCloseWait   State = 8
	StateLastAck     State = 9
	StateListen      State = 10
	StateClosing     State = 11
)

var stateNames = map[State]string{
	StateEstablished: "ESTABLISHED",
	StateSynSent:     "SYN_SENT",
	StateSynRecv:     "SYN_RECV",
	StateFinWait1:    "FIN_WAIT1",
	StateFinWait2:    "FIN_WAIT2",
	StateTimeWait:    "TIME_WAIT",
	StateClose:       "CLOSE",
	StateCloseWait:   "CLOSE_WAIT",
	StateLastAck:     "LAST_ACK",
	StateListen:      "LISTEN",
	StateClosing:     "CLOSING",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// seqCounterMask は、Seq.Counter の有効ビットです。
const seqCounterMask = 1<<24 - 1

/*
Seq は、セッションの設定シーケンスです。

Epoch はシーケンスを進めた時点のセッション状態、Counter は24ビットで循環するカウンタです。
比較は構造体の等価性で行います。状態が異なる時点で採番されたシーケンスは Counter が一致しても等しくなりません。

サブフローのゼロ値 Seq はどのセッションのシーケンスとも一致しないため、
新しく追加されたサブフローは必ず未同期として扱われます。
*/
type Seq struct {
	Epoch   State
	Counter uint32
}

// resetSeq は、状態 state を起点とする初期シーケンスを返却します。
func resetSeq(state State) Seq {
	return Seq{Epoch: state}
}

// next は、カウンタを1つ進め、Epoch を現在の状態 state で付け直したシーケンスを返却します。
func (s Seq) next(state State) Seq {
	return Seq{
		Epoch:   state,
		Counter: (s.Counter + 1) & seqCounterMask,
	}
}

func (s Seq) String() string {
	return fmt.Sprintf("%s/%d", s.Epoch, s.Counter)
}
