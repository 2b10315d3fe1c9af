package mptcp

const SeqCounterMask = seqCounterMask

var (
	ResetSeq    = resetSeq
	BufSize     = bufSize
	TokenFromID = tokenFromID
)

func (s Seq) Next(state State) Seq {
	return s.next(state)
}

// Pinned は、サブフローにサブフロー単位の閾値が固定済みかどうかを返却します。
func (sf *Subflow) Pinned() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.pinned
}
