package errors_test

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/aptpod/mptcp-go/errors"
)

func TestErrno(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want syscall.Errno
	}{
		{name: "success: nil", err: nil, want: 0},
		{name: "success: invalid argument", err: ErrInvalidArgument, want: syscall.EINVAL},
		{name: "success: wrapped invalid argument", err: fmt.Errorf("maxseg: %w", ErrInvalidArgument), want: syscall.EINVAL},
		{name: "success: no protocol option", err: ErrNoProtocolOption, want: syscall.ENOPROTOOPT},
		{name: "success: not supported", err: ErrNotSupported, want: syscall.EOPNOTSUPP},
		{name: "success: access fault", err: ErrAccessFault, want: syscall.EFAULT},
		{name: "success: resource unavailable", err: ErrResourceUnavailable, want: syscall.EAGAIN},
		{name: "success: closed", err: ErrConnectionClosed, want: syscall.ENOTCONN},
		{name: "success: raw errno", err: syscall.EPERM, want: syscall.EPERM},
		{name: "success: unknown", err: New("boom"), want: syscall.EIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Errno(tt.err))
		})
	}
}

func TestFromErrno(t *testing.T) {
	tests := []struct {
		name   string
		errno  syscall.Errno
		target error
	}{
		{name: "success: EINVAL", errno: syscall.EINVAL, target: ErrInvalidArgument},
		{name: "success: ENOPROTOOPT", errno: syscall.ENOPROTOOPT, target: ErrNoProtocolOption},
		{name: "success: EOPNOTSUPP", errno: syscall.EOPNOTSUPP, target: ErrNotSupported},
		{name: "success: EFAULT", errno: syscall.EFAULT, target: ErrAccessFault},
		{name: "success: EAGAIN", errno: syscall.EAGAIN, target: ErrResourceUnavailable},
		{name: "success: EPERM", errno: syscall.EPERM, target: ErrMPTCP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromErrno(tt.errno)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrMPTCP)
			assert.Equal(t, tt.errno, Errno(err))
		})
	}
	assert.NoError(t, FromErrno(0))
}

func TestNoProtocolOption_IsNotSupported(t *testing.T) {
	assert.ErrorIs(t, ErrNoProtocolOption, ErrNotSupported)
	assert.NotErrorIs(t, ErrNotSupported, ErrNoProtocolOption)
}

func TestFanoutError(t *testing.T) {
	err := error(&FanoutError{
		Level: 6,
		Name:  13,
		Failed: []SubflowFailure{
			{SubflowID: 2, Err: FromErrno(syscall.ENOENT)},
			{SubflowID: 3, Err: FromErrno(syscall.EINVAL)},
		},
	})
	assert.ErrorIs(t, err, ErrMPTCP)
	assert.ErrorIs(t, err, syscall.ENOENT)
	assert.NotErrorIs(t, err, ErrInvalidArgument, "only the first failure is unwrapped")
	assert.Equal(t, syscall.ENOENT, Errno(err))
	assert.Contains(t, err.Error(), "subflow 2")
	assert.Contains(t, err.Error(), "subflow 3")

	got, ok := AsFanoutError(fmt.Errorf("set congestion: %w", err))
	require.True(t, ok)
	assert.Len(t, got.Failed, 2)
	assert.Equal(t, uint32(3), got.Failed[1].SubflowID)

	_, ok = AsFanoutError(ErrInvalidArgument)
	assert.False(t, ok)
}
