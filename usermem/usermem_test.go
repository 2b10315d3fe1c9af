package usermem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptpod/mptcp-go/errors"
	. "github.com/aptpod/mptcp-go/usermem"
)

func TestBytesIO_CopyOut(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		addr    uint64
		src     string
		want    string
		wantErr error
	}{
		{name: "success", initial: "ABCDE", addr: 1, src: "foo", want: "AfooE"},
		{name: "success: empty", initial: "ABC", addr: 100, src: "", want: "ABC"},
		{name: "failure: out of range leaves memory untouched", initial: "ABC", addr: 1, src: "foo", want: "ABC", wantErr: errors.ErrAccessFault},
		{name: "failure: overflow", initial: "ABC", addr: ^uint64(0), src: "f", want: "ABC", wantErr: errors.ErrAccessFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BytesIO{Bytes: []byte(tt.initial)}
			err := b.CopyOut(tt.addr, []byte(tt.src))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, string(b.Bytes))
		})
	}
}

func TestBytesIO_CopyIn(t *testing.T) {
	b := &BytesIO{Bytes: []byte("AfooE")}

	dst := make([]byte, 3)
	require.NoError(t, b.CopyIn(1, dst))
	assert.Equal(t, "foo", string(dst))

	dst = []byte("xyz")
	err := b.CopyIn(3, dst)
	assert.ErrorIs(t, err, errors.ErrAccessFault)
	assert.Equal(t, "xyz", string(dst))
}

func TestFaultIO(t *testing.T) {
	var m IO = FaultIO{}
	assert.ErrorIs(t, m.CopyIn(0, make([]byte, 1)), errors.ErrAccessFault)
	assert.ErrorIs(t, m.CopyOut(0, make([]byte, 1)), errors.ErrAccessFault)
}

func TestNewBytesIO(t *testing.T) {
	b := NewBytesIO(8)
	assert.Len(t, b.Bytes, 8)
	assert.NoError(t, b.CopyOut(4, []byte{1, 2, 3, 4}))
}
