//go:build linux

package tcp

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/aptpod/mptcp-go/errors"
)

func setsockopt(fd uintptr, level, name int, val []byte) error {
	_, _, errno := unix.Syscall6(unix.SYS_SETSOCKOPT, fd, uintptr(level), uintptr(name), uintptr(firstBytePtr(val)), uintptr(len(val)), 0)
	if errno != 0 {
		return errors.FromErrno(errno)
	}
	return nil
}

func getsockopt(fd uintptr, level, name int, buf []byte) (int, error) {
	optlen := uint32(len(buf))
	_, _, errno := unix.Syscall6(unix.SYS_GETSOCKOPT, fd, uintptr(level), uintptr(name), uintptr(firstBytePtr(buf)), uintptr(unsafe.Pointer(&optlen)), 0)
	if errno != 0 {
		return 0, errors.FromErrno(errno)
	}
	return int(optlen), nil
}

func firstBytePtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
