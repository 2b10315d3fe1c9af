//go:build !linux

package tcp

import (
	"syscall"

	"github.com/aptpod/mptcp-go/errors"
)

func setsockopt(_ uintptr, _, _ int, _ []byte) error {
	return errors.FromErrno(syscall.ENOPROTOOPT)
}

func getsockopt(_ uintptr, _, _ int, _ []byte) (int, error) {
	return 0, errors.FromErrno(syscall.ENOPROTOOPT)
}
