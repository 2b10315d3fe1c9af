package abi

// SizeOfTCPInfo は struct tcp_info のサイズです（Linux 6.7以降）。
const SizeOfTCPInfo = 248

// TCPInfo は struct tcp_info です。
//
// SndWScale/RcvWScale と DeliveryRateAppLimited/FastopenClientFail はビットフィールドです。
type TCPInfo struct {
	State                  uint8
	CAState                uint8
	Retransmits            uint8
	Probes                 uint8
	Backoff                uint8
	Options                uint8
	SndWScale              uint8
	RcvWScale              uint8
	DeliveryRateAppLimited bool
	FastopenClientFail     uint8

	RTO          uint32
	ATO          uint32
	SndMSS       uint32
	RcvMSS       uint32
	Unacked      uint32
	Sacked       uint32
	Lost         uint32
	Retrans      uint32
	Fackets      uint32
	LastDataSent uint32
	LastAckSent  uint32
	LastDataRecv uint32
	LastAckRecv  uint32
	PMTU         uint32
	RcvSsthresh  uint32
	RTT          uint32
	RTTVar       uint32
	SndSsthresh  uint32
	SndCwnd      uint32
	AdvMSS       uint32
	Reordering   uint32
	RcvRTT       uint32
	RcvSpace     uint32
	TotalRetrans uint32

	PacingRate    uint64
	MaxPacingRate uint64
	BytesAcked    uint64
	BytesReceived uint64
	SegsOut       uint32
	SegsIn        uint32
	NotsentBytes  uint32
	MinRTT        uint32
	DataSegsIn    uint32
	DataSegsOut   uint32
	DeliveryRate  uint64
	BusyTime      uint64
	RwndLimited   uint64
	SndbufLimited uint64
	Delivered     uint32
	DeliveredCE   uint32
	BytesSent     uint64
	BytesRetrans  uint64
	DSACKDups     uint32
	ReordSeen     uint32
	RcvOOOPack    uint32
	SndWnd        uint32
	RcvWnd        uint32
	Rehash        uint32

	TotalRTO           uint16
	TotalRTORecoveries uint16
	TotalRTOTime       uint32
}

func (t *TCPInfo) SizeBytes() int { return SizeOfTCPInfo }

func (t *TCPInfo) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u8(t.State)
	w.u8(t.CAState)
	w.u8(t.Retransmits)
	w.u8(t.Probes)
	w.u8(t.Backoff)
	w.u8(t.Options)
	w.u8(t.SndWScale&0x0f | t.RcvWScale<<4)
	var bf uint8
	if t.DeliveryRateAppLimited {
		bf |= 1
	}
	bf |= (t.FastopenClientFail & 0x3) << 1
	w.u8(bf)

	for _, v := range []uint32{
		t.RTO, t.ATO, t.SndMSS, t.RcvMSS, t.Unacked, t.Sacked, t.Lost, t.Retrans,
		t.Fackets, t.LastDataSent, t.LastAckSent, t.LastDataRecv, t.LastAckRecv,
		t.PMTU, t.RcvSsthresh, t.RTT, t.RTTVar, t.SndSsthresh, t.SndCwnd, t.AdvMSS,
		t.Reordering, t.RcvRTT, t.RcvSpace, t.TotalRetrans,
	} {
		w.u32(v)
	}

	w.u64(t.PacingRate)
	w.u64(t.MaxPacingRate)
	w.u64(t.BytesAcked)
	w.u64(t.BytesReceived)
	w.u32(t.SegsOut)
	w.u32(t.SegsIn)
	w.u32(t.NotsentBytes)
	w.u32(t.MinRTT)
	w.u32(t.DataSegsIn)
	w.u32(t.DataSegsOut)
	w.u64(t.DeliveryRate)
	w.u64(t.BusyTime)
	w.u64(t.RwndLimited)
	w.u64(t.SndbufLimited)
	w.u32(t.Delivered)
	w.u32(t.DeliveredCE)
	w.u64(t.BytesSent)
	w.u64(t.BytesRetrans)
	w.u32(t.DSACKDups)
	w.u32(t.ReordSeen)
	w.u32(t.RcvOOOPack)
	w.u32(t.SndWnd)
	w.u32(t.RcvWnd)
	w.u32(t.Rehash)
	w.u16(t.TotalRTO)
	w.u16(t.TotalRTORecoveries)
	w.u32(t.TotalRTOTime)
}

func (t *TCPInfo) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	t.State = r.u8()
	t.CAState = r.u8()
	t.Retransmits = r.u8()
	t.Probes = r.u8()
	t.Backoff = r.u8()
	t.Options = r.u8()
	ws := r.u8()
	t.SndWScale = ws & 0x0f
	t.RcvWScale = ws >> 4
	bf := r.u8()
	t.DeliveryRateAppLimited = bf&1 != 0
	t.FastopenClientFail = (bf >> 1) & 0x3

	for _, p := range []*uint32{
		&t.RTO, &t.ATO, &t.SndMSS, &t.RcvMSS, &t.Unacked, &t.Sacked, &t.Lost, &t.Retrans,
		&t.Fackets, &t.LastDataSent, &t.LastAckSent, &t.LastDataRecv, &t.LastAckRecv,
		&t.PMTU, &t.RcvSsthresh, &t.RTT, &t.RTTVar, &t.SndSsthresh, &t.SndCwnd, &t.AdvMSS,
		&t.Reordering, &t.RcvRTT, &t.RcvSpace, &t.TotalRetrans,
	} {
		*p = r.u32()
	}

	t.PacingRate = r.u64()
	t.MaxPacingRate = r.u64()
	t.BytesAcked = r.u64()
	t.BytesReceived = r.u64()
	t.SegsOut = r.u32()
	t.SegsIn = r.u32()
	t.NotsentBytes = r.u32()
	t.MinRTT = r.u32()
	t.DataSegsIn = r.u32()
	t.DataSegsOut = r.u32()
	t.DeliveryRate = r.u64()
	t.BusyTime = r.u64()
	t.RwndLimited = r.u64()
	t.SndbufLimited = r.u64()
	t.Delivered = r.u32()
	t.DeliveredCE = r.u32()
	t.BytesSent = r.u64()
	t.BytesRetrans = r.u64()
	t.DSACKDups = r.u32()
	t.ReordSeen = r.u32()
	t.RcvOOOPack = r.u32()
	t.SndWnd = r.u32()
	t.RcvWnd = r.u32()
	t.Rehash = r.u32()
	t.TotalRTO = r.u16()
	t.TotalRTORecoveries = r.u16()
	t.TotalRTOTime = r.u32()
}

// TCP接続状態（tcpi_state）
const (
	TCP_ESTABLISHED = 1
	TCP_SYN_SENT    = 2
	TCP_SYN_RECV    = 3
	TCP_FIN_WAIT1   = 4
	TCP_FIN_WAIT2   = 5
	TCP_TIME_WAIT   = 6
	TCP_CLOSE       = 7
	TCP_CLOSE_WAIT  = 8
	TCP_LAST_ACK    = 9
	TCP_LISTEN      = 10
	TCP_CLOSING     = 11
)
