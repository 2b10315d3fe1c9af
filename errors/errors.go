package errors

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

var (
	// ErrMPTCPはmptcpライブラリで定義されている基底エラーです。
	ErrMPTCP = errors.New("mptcp")
	// ErrInvalidArgumentは、オプション値の長さや内容が不正な場合のエラーです。EINVALに対応します。
	ErrInvalidArgument = fmt.Errorf("invalid argument: %w", ErrMPTCP)
	// ErrNotSupportedは、オプションがサポートされていない場合のエラーです。EOPNOTSUPPに対応します。
	ErrNotSupported = fmt.Errorf("operation not supported: %w", ErrMPTCP)
	// ErrNoProtocolOptionは、オプションが許可リストに存在しない場合のエラーです。ENOPROTOOPTに対応します。
	ErrNoProtocolOption = fmt.Errorf("protocol not available: %w", ErrNotSupported)
	// ErrAccessFaultは、呼び出し元のメモリへのコピーに失敗した場合のエラーです。EFAULTに対応します。
	ErrAccessFault = fmt.Errorf("bad address: %w", ErrMPTCP)
	// ErrResourceUnavailableは、サブフローを作成できなかった場合のエラーです。EAGAINに対応します。
	ErrResourceUnavailable = fmt.Errorf("resource temporarily unavailable: %w", ErrMPTCP)
	// ErrConnectionClosedは、閉じられたセッションやサブフローを操作した場合のエラーです。
	ErrConnectionClosed = fmt.Errorf("closed mptcp connection: %w", ErrMPTCP)
)

// SubflowFailureは、ファンアウト中に1つのサブフローで発生した失敗です。
type SubflowFailure struct {
	SubflowID uint32 // サブフローID
	Err       error  // 失敗の原因
}

func (f SubflowFailure) Error() string {
	return fmt.Sprintf("subflow %d: %v", f.SubflowID, f.Err)
}

func (f SubflowFailure) Unwrap() error {
	return f.Err
}

// FanoutErrorは、全サブフローへの適用で一部のサブフローが失敗した場合のエラーです。
//
// セッション側のキャッシュは更新済みで、失敗したサブフローは次回の同期で再適用されます。
// Unwrapは最初の失敗を返すため、errors.Isは最初の失敗の原因と比較されます。
type FanoutError struct {
	Level  int              // ソケットオプションのレベル
	Name   int              // ソケットオプション名
	Failed []SubflowFailure // 失敗したサブフロー（適用順）
}

func (e *FanoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fanout level:%d name:%d failed on %d subflow(s)", e.Level, e.Name, len(e.Failed))
	for _, f := range e.Failed {
		b.WriteString("; ")
		b.WriteString(f.Error())
	}
	return b.String()
}

func (e *FanoutError) Is(err error) bool {
	return err == ErrMPTCP
}

func (e *FanoutError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].Err
}

// AsFanoutErrorは、errにFanoutErrorが含まれていればそれを返却します。
func AsFanoutError(err error) (*FanoutError, bool) {
	var res *FanoutError
	ok := As(err, &res)
	return res, ok
}

// Errnoは、errを呼び出し元に返すerrno値に変換します。
//
// nilの場合は0を返します。分類できないエラーはEIOになります。
func Errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if As(err, &errno) {
		return errno
	}
	switch {
	case Is(err, ErrInvalidArgument):
		return syscall.EINVAL
	case Is(err, ErrNoProtocolOption):
		return syscall.ENOPROTOOPT
	case Is(err, ErrNotSupported):
		return syscall.EOPNOTSUPP
	case Is(err, ErrAccessFault):
		return syscall.EFAULT
	case Is(err, ErrResourceUnavailable):
		return syscall.EAGAIN
	case Is(err, ErrConnectionClosed):
		return syscall.ENOTCONN
	}
	return syscall.EIO
}

// FromErrnoは、サブフローのプリミティブが返したerrnoをエラー分類に変換します。
//
// 分類に対応しないerrnoは、errnoをラップしたエラーとして返却します。
func FromErrno(errno syscall.Errno) error {
	switch errno {
	case 0:
		return nil
	case syscall.EINVAL:
		return fmt.Errorf("%w: %w", ErrInvalidArgument, errno)
	case syscall.ENOPROTOOPT:
		return fmt.Errorf("%w: %w", ErrNoProtocolOption, errno)
	case syscall.EOPNOTSUPP:
		return fmt.Errorf("%w: %w", ErrNotSupported, errno)
	case syscall.EFAULT:
		return fmt.Errorf("%w: %w", ErrAccessFault, errno)
	case syscall.EAGAIN:
		return fmt.Errorf("%w: %w", ErrResourceUnavailable, errno)
	}
	return fmt.Errorf("%w: %w", ErrMPTCP, errno)
}

func New(text string) error {
	return errors.New(text)
}

func Errorf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
