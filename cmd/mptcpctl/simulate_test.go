package main

import (
	"bytes"
	"context"
	"strings"
	"syscall"
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/mptcp"
	mptcpprom "github.com/aptpod/mptcp-go/prometheus"
)

func TestSimulate(t *testing.T) {
	defer goleak.VerifyNone(t)

	conf, err := ReadConf("testdata/simulate.yaml")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	obs, err := mptcpprom.NewObserver(reg)
	require.NoError(t, err)

	var out bytes.Buffer
	r, err := simulate(context.Background(), &out, conf, 3, log.NewNop(), mptcp.WithSessionObserver(obs))
	require.NoError(t, err)

	lines := out.String()
	assert.Contains(t, lines, "TCP_NODELAY")
	assert.Contains(t, lines, syscall.EPERM.Error())
	assert.Contains(t, lines, "stale=true")
	assert.NotContains(t, lines, "synced=false")

	assert.Equal(t, "sim-1", r.Session)
	assert.Equal(t, "ESTABLISHED", r.State)
	assert.Equal(t, uint8(2), r.Info.Subflows)
	assert.Equal(t, uint8(3), r.Info.SubflowsTotal)
	assert.Equal(t, uint64(len("message-0")*3), r.Info.BytesSent)
	require.Len(t, r.Subflows, 3)
	for _, sf := range r.Subflows {
		assert.Equal(t, r.Seq, sf.Seq)
		assert.Equal(t, "192.0.2.1:443", sf.Remote)
		assert.Equal(t, "ESTABLISHED", sf.State)
	}

	var report bytes.Buffer
	require.NoError(t, r.Write(&report))
	assert.True(t, strings.HasPrefix(report.String(), "session: sim-1"))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestSimulate_Failure(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{
			name:   "failure: no subflows",
			modify: func(c *Config) { c.Simulate.Subflows = 0 },
		},
		{
			name: "failure: failure index out of range",
			modify: func(c *Config) {
				c.Simulate.LateSubflow = pointer.ToBool(false)
				c.Simulate.Failures = []FailureConfig{{Subflow: 2, Option: "TCP_NODELAY"}}
			},
		},
		{
			name: "failure: unknown errno",
			modify: func(c *Config) {
				c.Simulate.Failures = []FailureConfig{{Subflow: 0, Option: "TCP_NODELAY", Errno: "EWHATEVER"}}
			},
		},
		{
			name: "failure: unknown option",
			modify: func(c *Config) {
				c.Simulate.Failures = []FailureConfig{{Subflow: 0, Option: "TCP_WHATEVER"}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)
			conf, err := loadConf("")
			require.NoError(t, err)
			tt.modify(conf)

			_, err = simulate(context.Background(), &bytes.Buffer{}, conf, 1, log.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success: ok", want: "ok"},
		{
			name: "success: plain errno",
			err:  errors.Errorf("x: %w", errors.ErrNoProtocolOption),
			want: syscall.ENOPROTOOPT.Error(),
		},
		{
			name: "success: fanout lists failed subflows",
			err: &errors.FanoutError{Failed: []errors.SubflowFailure{
				{SubflowID: 2, Err: errors.FromErrno(syscall.EPERM)},
			}},
			want: "failed subflows [2:" + syscall.EPERM.Error() + "]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, describe(tt.err), tt.want)
		})
	}
}
