package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/usermem"
)

type unmarshaler[T any] interface {
	*T
	UnmarshalBytes(src []byte)
}

func queryInfo(ctx context.Context, sess *mptcp.Session) (abi.MPTCPInfo, error) {
	var info abi.MPTCPInfo
	b := make([]byte, abi.SizeOfMPTCPInfo)
	if err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_INFO, mptcp.NewBuffer(b)); err != nil {
		return info, err
	}
	info.UnmarshalBytes(b)
	return info, nil
}

// querySubflowData は、mptcp_subflow_data を先頭に持つ問い合わせ (MPTCP_TCPINFO, MPTCP_SUBFLOW_ADDRS) を実行します。
func querySubflowData[T any, PT unmarshaler[T]](ctx context.Context, sess *mptcp.Session, name, elemSize int) ([]T, error) {
	n := len(sess.Subflows())
	b := make([]byte, abi.SizeOfSubflowData+n*elemSize)
	copy(b, abi.Marshal(&abi.SubflowData{
		SizeSubflowData: abi.SizeOfSubflowData,
		SizeUser:        uint32(elemSize),
	}))
	buf := mptcp.NewBuffer(b)
	if err := sess.GetOption(ctx, abi.SOL_MPTCP, name, buf); err != nil {
		return nil, err
	}

	res := make([]T, (buf.Len-abi.SizeOfSubflowData)/elemSize)
	for i := range res {
		PT(&res[i]).UnmarshalBytes(b[abi.SizeOfSubflowData+i*elemSize:])
	}
	return res, nil
}

func queryFullInfo(ctx context.Context, sess *mptcp.Session) (abi.FullInfo, []abi.SubflowInfo, []abi.TCPInfo, error) {
	n := len(sess.Subflows())
	sfInfoAddr := abi.SizeOfFullInfo
	tcpInfoAddr := sfInfoAddr + n*abi.SizeOfSubflowInfo

	mem := usermem.NewBytesIO(tcpInfoAddr + n*abi.SizeOfTCPInfo)
	req := abi.FullInfo{
		SizeTCPInfoUser: abi.SizeOfTCPInfo,
		SizeSfInfoUser:  abi.SizeOfSubflowInfo,
		SizeArraysUser:  uint32(n),
		SubflowInfoPtr:  uint64(sfInfoAddr),
		TCPInfoPtr:      uint64(tcpInfoAddr),
	}
	copy(mem.Bytes, abi.Marshal(&req)[:abi.SizeOfFullInfoHeader])

	var full abi.FullInfo
	if err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, &mptcp.Buffer{Mem: mem, Len: abi.SizeOfFullInfo}); err != nil {
		return full, nil, nil, err
	}
	full.UnmarshalBytes(mem.Bytes)

	count := min(int(full.NumSubflows), n)
	sfInfos := make([]abi.SubflowInfo, count)
	tcpInfos := make([]abi.TCPInfo, count)
	for i := 0; i < count; i++ {
		sfInfos[i].UnmarshalBytes(mem.Bytes[sfInfoAddr+i*abi.SizeOfSubflowInfo:])
		tcpInfos[i].UnmarshalBytes(mem.Bytes[tcpInfoAddr+i*abi.SizeOfTCPInfo:])
	}
	return full, sfInfos, tcpInfos, nil
}

type Report struct {
	Session  string          `yaml:"session"`
	State    string          `yaml:"state"`
	Seq      string          `yaml:"seq"`
	Fallback bool            `yaml:"fallback"`
	Info     InfoReport      `yaml:"mptcpInfo"`
	Subflows []SubflowReport `yaml:"subflows"`
}

type InfoReport struct {
	Token         uint32 `yaml:"token"`
	Flags         uint32 `yaml:"flags"`
	Subflows      uint8  `yaml:"subflows"`
	SubflowsTotal uint8  `yaml:"subflowsTotal"`
	LocalAddrUsed uint8  `yaml:"localAddrUsed"`
	BytesSent     uint64 `yaml:"bytesSent"`
	BytesReceived uint64 `yaml:"bytesReceived"`
	BytesAcked    uint64 `yaml:"bytesAcked"`
}

type SubflowReport struct {
	ID     uint32 `yaml:"id"`
	Seq    string `yaml:"seq,omitempty"`
	Local  string `yaml:"local"`
	Remote string `yaml:"remote"`
	State  string `yaml:"state"`
	RTT    uint32 `yaml:"rttUs"`
	RTTVar uint32 `yaml:"rttVarUs"`
	SndMSS uint32 `yaml:"sndMss"`
	Cwnd   uint32 `yaml:"sndCwnd"`
}

/*
inspect は、MPTCP_INFO, MPTCP_TCPINFO, MPTCP_SUBFLOW_ADDRS, MPTCP_FULL_INFO の問い合わせ結果をまとめます。

MPTCP_TCPINFO と MPTCP_SUBFLOW_ADDRS の結果は、MPTCP_FULL_INFO で得たサブフローIDと突き合わせます。
*/
func inspect(ctx context.Context, sess *mptcp.Session) (*Report, error) {
	info, err := queryInfo(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("MPTCP_INFO: %w", err)
	}
	tcpInfos, err := querySubflowData[abi.TCPInfo](ctx, sess, abi.MPTCP_TCPINFO, abi.SizeOfTCPInfo)
	if err != nil {
		return nil, fmt.Errorf("MPTCP_TCPINFO: %w", err)
	}
	addrs, err := querySubflowData[abi.SubflowAddrs](ctx, sess, abi.MPTCP_SUBFLOW_ADDRS, abi.SizeOfSubflowAddrs)
	if err != nil {
		return nil, fmt.Errorf("MPTCP_SUBFLOW_ADDRS: %w", err)
	}
	full, sfInfos, _, err := queryFullInfo(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("MPTCP_FULL_INFO: %w", err)
	}

	r := &Report{
		Session:  sess.ID(),
		State:    sess.State().String(),
		Seq:      sess.Seq().String(),
		Fallback: sess.Fallback(),
		Info: InfoReport{
			Token:         info.Token,
			Flags:         info.Flags,
			Subflows:      info.Subflows,
			SubflowsTotal: full.MPTCPInfo.SubflowsTotal,
			LocalAddrUsed: info.LocalAddrUsed,
			BytesSent:     info.BytesSent,
			BytesReceived: info.BytesReceived,
			BytesAcked:    info.BytesAcked,
		},
	}
	count := min(len(tcpInfos), len(addrs), len(sfInfos))
	for i := 0; i < count; i++ {
		sr := SubflowReport{
			ID:     sfInfos[i].ID,
			Local:  addrs[i].Local.String(),
			Remote: addrs[i].Remote.String(),
			State:  mptcp.State(tcpInfos[i].State).String(),
			RTT:    tcpInfos[i].RTT,
			RTTVar: tcpInfos[i].RTTVar,
			SndMSS: tcpInfos[i].SndMSS,
			Cwnd:   tcpInfos[i].SndCwnd,
		}
		if sf, ok := sess.Subflow(sr.ID); ok {
			sr.Seq = sf.Seq().String()
		}
		r.Subflows = append(r.Subflows, sr)
	}
	return r, nil
}

func (r *Report) Write(w io.Writer) error {
	b, err := yaml.MarshalWithOptions(r, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// describe は、SetOption の結果を1行で表します。
func describe(err error) string {
	if err == nil {
		return "ok"
	}
	errno := errors.Errno(err)
	fe, ok := errors.AsFanoutError(err)
	if !ok {
		return fmt.Sprintf("%s (%d)", errno.Error(), int(errno))
	}
	ids := make([]string, 0, len(fe.Failed))
	for _, f := range fe.Failed {
		ids = append(ids, fmt.Sprintf("%d:%s", f.SubflowID, errors.Errno(f.Err).Error()))
	}
	return fmt.Sprintf("%s (%d), failed subflows [%s]", errno.Error(), int(errno), strings.Join(ids, " "))
}

// applyOptions は、オプションを順に設定し結果を w に出力します。失敗したオプションの数を返却します。
func applyOptions(ctx context.Context, w io.Writer, sess *mptcp.Session, options []OptionConfig) (int, error) {
	failed := 0
	for _, o := range options {
		opt, val, err := o.Resolve()
		if err != nil {
			return failed, err
		}
		err = sess.SetOption(ctx, opt.Level, opt.Name, val)
		if err != nil {
			failed++
		}
		fmt.Fprintf(w, "%-24s seq=%-16s %s\n", opt, sess.Seq(), describe(err))
	}
	return failed, nil
}
