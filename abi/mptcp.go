package abi

// 構造体サイズ
const (
	SizeOfMPTCPInfo          = 96
	SizeOfSubflowData        = 16
	SizeOfFullInfoHeader     = 40
	SizeOfFullInfo           = SizeOfFullInfoHeader + SizeOfMPTCPInfo
	SizeOfSubflowAddrs       = 2 * SizeOfSockaddrStorage
	SizeOfSubflowInfo        = OffsetOfSubflowInfoAddrs + SizeOfSubflowAddrs
	OffsetOfSubflowInfoAddrs = 8
)

// MPTCPInfo は struct mptcp_info です。
type MPTCPInfo struct {
	Subflows           uint8
	AddAddrSignal      uint8
	AddAddrAccepted    uint8
	SubflowsMax        uint8
	AddAddrSignalMax   uint8
	AddAddrAcceptedMax uint8
	Flags              uint32
	Token              uint32
	WriteSeq           uint64
	SndUna             uint64
	RcvNxt             uint64
	LocalAddrUsed      uint8
	LocalAddrMax       uint8
	CsumEnabled        uint8
	Retransmits        uint32
	BytesRetrans       uint64
	BytesSent          uint64
	BytesReceived      uint64
	BytesAcked         uint64
	SubflowsTotal      uint8
	LastDataSent       uint32
	LastDataRecv       uint32
	LastAckRecv        uint32
}

func (i *MPTCPInfo) SizeBytes() int { return SizeOfMPTCPInfo }

func (i *MPTCPInfo) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u8(i.Subflows)
	w.u8(i.AddAddrSignal)
	w.u8(i.AddAddrAccepted)
	w.u8(i.SubflowsMax)
	w.u8(i.AddAddrSignalMax)
	w.u8(i.AddAddrAcceptedMax)
	w.pad(2)
	w.u32(i.Flags)
	w.u32(i.Token)
	w.u64(i.WriteSeq)
	w.u64(i.SndUna)
	w.u64(i.RcvNxt)
	w.u8(i.LocalAddrUsed)
	w.u8(i.LocalAddrMax)
	w.u8(i.CsumEnabled)
	w.pad(1)
	w.u32(i.Retransmits)
	w.u64(i.BytesRetrans)
	w.u64(i.BytesSent)
	w.u64(i.BytesReceived)
	w.u64(i.BytesAcked)
	w.u8(i.SubflowsTotal)
	w.pad(3)
	w.u32(i.LastDataSent)
	w.u32(i.LastDataRecv)
	w.u32(i.LastAckRecv)
}

func (i *MPTCPInfo) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	i.Subflows = r.u8()
	i.AddAddrSignal = r.u8()
	i.AddAddrAccepted = r.u8()
	i.SubflowsMax = r.u8()
	i.AddAddrSignalMax = r.u8()
	i.AddAddrAcceptedMax = r.u8()
	r.skip(2)
	i.Flags = r.u32()
	i.Token = r.u32()
	i.WriteSeq = r.u64()
	i.SndUna = r.u64()
	i.RcvNxt = r.u64()
	i.LocalAddrUsed = r.u8()
	i.LocalAddrMax = r.u8()
	i.CsumEnabled = r.u8()
	r.skip(1)
	i.Retransmits = r.u32()
	i.BytesRetrans = r.u64()
	i.BytesSent = r.u64()
	i.BytesReceived = r.u64()
	i.BytesAcked = r.u64()
	i.SubflowsTotal = r.u8()
	r.skip(3)
	i.LastDataSent = r.u32()
	i.LastDataRecv = r.u32()
	i.LastAckRecv = r.u32()
}

// SubflowData は struct mptcp_subflow_data です。
//
// MPTCP_TCPINFO と MPTCP_SUBFLOW_ADDRS の要求ヘッダとして使われます。
type SubflowData struct {
	SizeSubflowData uint32
	NumSubflows     uint32
	SizeKernel      uint32
	SizeUser        uint32
}

func (d *SubflowData) SizeBytes() int { return SizeOfSubflowData }

func (d *SubflowData) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u32(d.SizeSubflowData)
	w.u32(d.NumSubflows)
	w.u32(d.SizeKernel)
	w.u32(d.SizeUser)
}

func (d *SubflowData) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	d.SizeSubflowData = r.u32()
	d.NumSubflows = r.u32()
	d.SizeKernel = r.u32()
	d.SizeUser = r.u32()
}

// FullInfo は struct mptcp_full_info です。
//
// SubflowInfoPtr と TCPInfoPtr は呼び出し元のアドレス空間を指します。
type FullInfo struct {
	SizeTCPInfoKernel uint32
	SizeTCPInfoUser   uint32
	SizeSfInfoKernel  uint32
	SizeSfInfoUser    uint32
	NumSubflows       uint32
	SizeArraysUser    uint32
	SubflowInfoPtr    uint64
	TCPInfoPtr        uint64
	MPTCPInfo         MPTCPInfo
}

func (f *FullInfo) SizeBytes() int { return SizeOfFullInfo }

func (f *FullInfo) MarshalBytes(dst []byte) {
	f.marshalHeader(dst)
	f.MPTCPInfo.MarshalBytes(dst[SizeOfFullInfoHeader:])
}

func (f *FullInfo) UnmarshalBytes(src []byte) {
	f.UnmarshalHeader(src)
	f.MPTCPInfo.UnmarshalBytes(src[SizeOfFullInfoHeader:])
}

func (f *FullInfo) marshalHeader(dst []byte) {
	w := writer{b: dst}
	w.u32(f.SizeTCPInfoKernel)
	w.u32(f.SizeTCPInfoUser)
	w.u32(f.SizeSfInfoKernel)
	w.u32(f.SizeSfInfoUser)
	w.u32(f.NumSubflows)
	w.u32(f.SizeArraysUser)
	w.u64(f.SubflowInfoPtr)
	w.u64(f.TCPInfoPtr)
}

// UnmarshalHeader は、先頭40バイトのヘッダのみを読み出します。MPTCPInfoは変更しません。
func (f *FullInfo) UnmarshalHeader(src []byte) {
	r := reader{b: src}
	f.SizeTCPInfoKernel = r.u32()
	f.SizeTCPInfoUser = r.u32()
	f.SizeSfInfoKernel = r.u32()
	f.SizeSfInfoUser = r.u32()
	f.NumSubflows = r.u32()
	f.SizeArraysUser = r.u32()
	f.SubflowInfoPtr = r.u64()
	f.TCPInfoPtr = r.u64()
}

// SubflowAddrs は struct mptcp_subflow_addrs です。
type SubflowAddrs struct {
	Local  Sockaddr
	Remote Sockaddr
}

func (a *SubflowAddrs) SizeBytes() int { return SizeOfSubflowAddrs }

func (a *SubflowAddrs) MarshalBytes(dst []byte) {
	a.Local.MarshalBytes(dst[:SizeOfSockaddrStorage])
	a.Remote.MarshalBytes(dst[SizeOfSockaddrStorage:SizeOfSubflowAddrs])
}

func (a *SubflowAddrs) UnmarshalBytes(src []byte) {
	a.Local.UnmarshalBytes(src[:SizeOfSockaddrStorage])
	a.Remote.UnmarshalBytes(src[SizeOfSockaddrStorage:SizeOfSubflowAddrs])
}

// SubflowInfo は struct mptcp_subflow_info です。
type SubflowInfo struct {
	ID    uint32
	Addrs SubflowAddrs
}

func (s *SubflowInfo) SizeBytes() int { return SizeOfSubflowInfo }

func (s *SubflowInfo) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u32(s.ID)
	w.pad(OffsetOfSubflowInfoAddrs - 4)
	s.Addrs.MarshalBytes(dst[OffsetOfSubflowInfoAddrs:])
}

func (s *SubflowInfo) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	s.ID = r.u32()
	s.Addrs.UnmarshalBytes(src[OffsetOfSubflowInfoAddrs:])
}

// Linger は struct linger です。
type Linger struct {
	OnOff  int32
	Linger int32
}

const SizeOfLinger = 8

func (l *Linger) SizeBytes() int { return SizeOfLinger }

func (l *Linger) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u32(uint32(l.OnOff))
	w.u32(uint32(l.Linger))
}

func (l *Linger) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	l.OnOff = int32(r.u32())
	l.Linger = int32(r.u32())
}

// Timestamping は struct so_timestamping です。
type Timestamping struct {
	Flags   int32
	BindPHC int32
}

const SizeOfTimestamping = 8

func (t *Timestamping) SizeBytes() int { return SizeOfTimestamping }

func (t *Timestamping) MarshalBytes(dst []byte) {
	w := writer{b: dst}
	w.u32(uint32(t.Flags))
	w.u32(uint32(t.BindPHC))
}

func (t *Timestamping) UnmarshalBytes(src []byte) {
	r := reader{b: src}
	t.Flags = int32(r.u32())
	t.BindPHC = int32(r.u32())
}
