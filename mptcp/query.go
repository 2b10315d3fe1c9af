package mptcp

import (
	"context"
	"encoding/binary"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// Countersは、データを送受信するホストが管理するセッションの集計値です。
//
// MPTCP_INFO と MPTCP_FULL_INFO で返却されます。
type Counters struct {
	Token             uint32
	WriteSeq          uint64
	SndUna            uint64
	RcvNxt            uint64
	Retransmits       uint32
	BytesRetrans      uint64
	BytesSent         uint64
	BytesReceived     uint64
	BytesAcked        uint64
	AddAddrSignal     uint8
	AddAddrAccepted   uint8
	RemoteKeyReceived bool
	CsumEnabled       bool
	LastDataSent      time.Time
	LastDataRecv      time.Time
	LastAckRecv       time.Time
}

// Accountは、セッションのロックを保持した状態で f を呼び出し、集計値を更新します。
func (s *Session) Account(f func(c *Counters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.counters)
}

// Infoは、セッションの mptcp_info を返却します。
func (s *Session) Info() abi.MPTCPInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fillInfo(time.Now())
}

// tokenFromID は、セッションIDから決定的にトークンを導出します。
func tokenFromID(id string) uint32 {
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	return binary.BigEndian.Uint32(u[:4])
}

func (s *Session) fillInfo(now time.Time) abi.MPTCPInfo {
	c := &s.counters
	sysctl := s.cfg.Sysctl

	total := s.members.Len()
	additional := total
	if s.first != nil {
		additional--
	}

	var flags uint32
	if s.fallback {
		flags |= abi.MPTCP_INFO_FLAG_FALLBACK
	}
	if c.RemoteKeyReceived {
		flags |= abi.MPTCP_INFO_FLAG_REMOTE_KEY_RECEIVED
	}
	var csum uint8
	if c.CsumEnabled {
		csum = 1
	}

	return abi.MPTCPInfo{
		Subflows:           uint8(additional),
		AddAddrSignal:      c.AddAddrSignal,
		AddAddrAccepted:    c.AddAddrAccepted,
		SubflowsMax:        sysctl.SubflowsMax,
		AddAddrSignalMax:   sysctl.AddAddrSignalMax,
		AddAddrAcceptedMax: sysctl.AddAddrAcceptedMax,
		Flags:              flags,
		Token:              c.Token,
		WriteSeq:           c.WriteSeq,
		SndUna:             c.SndUna,
		RcvNxt:             c.RcvNxt,
		LocalAddrUsed:      s.localAddrUsed(),
		LocalAddrMax:       sysctl.LocalAddrMax,
		CsumEnabled:        csum,
		Retransmits:        c.Retransmits,
		BytesRetrans:       c.BytesRetrans,
		BytesSent:          c.BytesSent,
		BytesReceived:      c.BytesReceived,
		BytesAcked:         c.BytesAcked,
		SubflowsTotal:      uint8(total),
		LastDataSent:       msSince(now, c.LastDataSent),
		LastDataRecv:       msSince(now, c.LastDataRecv),
		LastAckRecv:        msSince(now, c.LastAckRecv),
	}
}

// localAddrUsed は、最初のサブフロー以外が使用しているローカルアドレスの数を返却します。
func (s *Session) localAddrUsed() uint8 {
	seen := make(map[string]struct{})
	s.members.Ascend(func(sf *Subflow) bool {
		if sf == s.first {
			return true
		}
		if addr, ok := sf.conn.LocalAddr().(*net.TCPAddr); ok && addr != nil {
			seen[addr.IP.String()] = struct{}{}
		}
		return true
	})
	return uint8(len(seen))
}

func msSince(now, t time.Time) uint32 {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return uint32(now.Sub(t) / time.Millisecond)
}

func (s *Session) getMPTCP(_ context.Context, name int, buf *Buffer) error {
	switch name {
	case abi.MPTCP_INFO:
		return s.getInfo(buf)
	case abi.MPTCP_TCPINFO:
		return s.getSubflowArray(buf, abi.SizeOfTCPInfo, func(sf *Subflow) []byte {
			info := sf.lockedTCPInfo()
			return abi.Marshal(&info)
		})
	case abi.MPTCP_SUBFLOW_ADDRS:
		return s.getSubflowArray(buf, abi.SizeOfSubflowAddrs, func(sf *Subflow) []byte {
			addrs := sf.addrs()
			return abi.Marshal(&addrs)
		})
	case abi.MPTCP_FULL_INFO:
		return s.getFullInfo(buf)
	}
	return errors.Errorf("SOL_MPTCP name:%d: %w", name, errors.ErrNotSupported)
}

// getInfo は、MPTCP_INFO を返却します。長さが0の場合は何も書き込みません。
func (s *Session) getInfo(buf *Buffer) error {
	if buf.Len == 0 {
		return nil
	}
	n := buf.Len
	if n < 0 || n > abi.SizeOfMPTCPInfo {
		n = abi.SizeOfMPTCPInfo
	}
	info := s.fillInfo(time.Now())
	return buf.write(abi.Marshal(&info)[:n])
}

// readSubflowData は、mptcp_subflow_data を読み出して検証し、要素の配列に使用できる長さを返却します。
func readSubflowData(buf *Buffer) (abi.SubflowData, int, error) {
	var sfd abi.SubflowData
	if buf.Len < abi.SizeOfSubflowData {
		return sfd, 0, errors.Errorf("subflow data length %d: %w", buf.Len, errors.ErrInvalidArgument)
	}
	raw := make([]byte, abi.SizeOfSubflowData)
	if err := buf.copyIn(0, raw); err != nil {
		return sfd, 0, err
	}
	sfd.UnmarshalBytes(raw)

	switch {
	case sfd.SizeSubflowData > abi.INT_MAX || sfd.SizeUser > abi.INT_MAX:
		return sfd, 0, errors.Errorf("subflow data size overflow: %w", errors.ErrInvalidArgument)
	case sfd.SizeSubflowData < abi.SizeOfSubflowData || int(sfd.SizeSubflowData) > buf.Len:
		return sfd, 0, errors.Errorf("subflow data size %d: %w", sfd.SizeSubflowData, errors.ErrInvalidArgument)
	case sfd.NumSubflows != 0 || sfd.SizeKernel != 0:
		return sfd, 0, errors.Errorf("subflow data output fields must be zero: %w", errors.ErrInvalidArgument)
	}
	return sfd, buf.Len - int(sfd.SizeSubflowData), nil
}

/*
getSubflowArray は、MPTCP_TCPINFO と MPTCP_SUBFLOW_ADDRS の共通処理です。

ヘッダの後ろに、サブフローごとに min(size_user, kernelSize) バイトの要素を、残りの長さに収まる限り書き込みます。
num_subflows には収まらなかったサブフローも含めた数を返却します。
*/
func (s *Session) getSubflowArray(buf *Buffer, kernelSize int, elem func(sf *Subflow) []byte) error {
	sfd, remain, err := readSubflowData(buf)
	if err != nil {
		return err
	}
	sfd.SizeKernel = uint32(kernelSize)
	if sfd.SizeUser > uint32(kernelSize) {
		sfd.SizeUser = uint32(kernelSize)
	}
	user := int(sfd.SizeUser)

	off := uint64(sfd.SizeSubflowData)
	copied := 0
	for _, sf := range s.snapshot() {
		sfd.NumSubflows++
		if remain > 0 && remain >= user {
			if err := buf.copyOut(off, elem(sf)[:user]); err != nil {
				return err
			}
			off += uint64(user)
			copied += user
			remain -= user
		}
	}

	hdrLen := int(sfd.SizeSubflowData)
	if hdrLen > abi.SizeOfSubflowData {
		hdrLen = abi.SizeOfSubflowData
	}
	if copied > 0 {
		copied += int(sfd.SizeSubflowData)
	} else {
		copied = hdrLen
	}
	if err := buf.copyOut(0, abi.Marshal(&sfd)[:hdrLen]); err != nil {
		return err
	}
	buf.Len = copied
	return nil
}

/*
getFullInfo は、MPTCP_FULL_INFO を返却します。

サブフローの情報と tcp_info は、ヘッダ内の2つのポインタが指す呼び出し元の配列に、
size_arrays_user 個まで書き込みます。num_subflows には全てのサブフローの数を返却します。
*/
func (s *Session) getFullInfo(buf *Buffer) error {
	if buf.Len < abi.SizeOfFullInfoHeader {
		return errors.Errorf("full info length %d: %w", buf.Len, errors.ErrInvalidArgument)
	}
	raw := make([]byte, abi.SizeOfFullInfoHeader)
	if err := buf.copyIn(0, raw); err != nil {
		return err
	}
	var mfi abi.FullInfo
	mfi.UnmarshalHeader(raw)
	if mfi.SizeTCPInfoKernel != 0 || mfi.SizeSfInfoKernel != 0 || mfi.NumSubflows != 0 {
		return errors.Errorf("full info output fields must be zero: %w", errors.ErrInvalidArgument)
	}
	if mfi.SizeSfInfoUser > abi.INT_MAX || mfi.SizeTCPInfoUser > abi.INT_MAX {
		return errors.Errorf("full info size overflow: %w", errors.ErrInvalidArgument)
	}

	remain := buf.Len - abi.SizeOfFullInfoHeader
	infoLen := 0
	if remain > 0 {
		mfi.MPTCPInfo = s.fillInfo(time.Now())
		infoLen = remain
		if infoLen > abi.SizeOfMPTCPInfo {
			infoLen = abi.SizeOfMPTCPInfo
		}
	}

	mfi.SizeTCPInfoKernel = abi.SizeOfTCPInfo
	if mfi.SizeTCPInfoUser > abi.SizeOfTCPInfo {
		mfi.SizeTCPInfoUser = abi.SizeOfTCPInfo
	}
	mfi.SizeSfInfoKernel = abi.SizeOfSubflowInfo
	if mfi.SizeSfInfoUser > abi.SizeOfSubflowInfo {
		mfi.SizeSfInfoUser = abi.SizeOfSubflowInfo
	}

	sfAddr, tcpAddr := mfi.SubflowInfoPtr, mfi.TCPInfoPtr
	var count uint32
	for _, sf := range s.snapshot() {
		count++
		if count > mfi.SizeArraysUser {
			continue
		}

		sfi := abi.SubflowInfo{ID: sf.id}
		if mfi.SizeSfInfoUser > abi.OffsetOfSubflowInfoAddrs {
			sfi.Addrs = sf.addrs()
		}
		if err := copyOutAt(buf, sfAddr, abi.Marshal(&sfi)[:mfi.SizeSfInfoUser]); err != nil {
			return err
		}
		if mfi.SizeTCPInfoUser > 0 {
			info := sf.lockedTCPInfo()
			if err := copyOutAt(buf, tcpAddr, abi.Marshal(&info)[:mfi.SizeTCPInfoUser]); err != nil {
				return err
			}
		}
		sfAddr += uint64(mfi.SizeSfInfoUser)
		tcpAddr += uint64(mfi.SizeTCPInfoUser)
	}
	mfi.NumSubflows = count

	n := abi.SizeOfFullInfoHeader + infoLen
	return buf.write(abi.Marshal(&mfi)[:n])
}

// copyOutAt は、呼び出し元のアドレス addr に書き込みます。Buffer.Addr は加算しません。
func copyOutAt(buf *Buffer, addr uint64, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	return buf.Mem.CopyOut(addr, src)
}

func (sf *Subflow) lockedTCPInfo() abi.TCPInfo {
	unlock, _ := sf.lock(lockFast)
	defer unlock()
	return sf.tcpInfo()
}
