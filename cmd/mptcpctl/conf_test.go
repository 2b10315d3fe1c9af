package main

import (
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptpod/mptcp-go/abi"
)

func TestReadConf(t *testing.T) {
	tests := []struct {
		name string
		path string
		want *Config
	}{
		{
			name: "success: defaults are filled in",
			path: "testdata/simulate.yaml",
			want: &Config{
				SessionID: "sim-1",
				LogLevel:  "warn",
				Dial:      DialConfig{Timeout: 5 * time.Second, MaxAttempt: 3, BaseInterval: 100 * time.Millisecond},
				Options: []OptionConfig{
					{Name: "TCP_NODELAY", Int: pointer.ToInt32(1)},
					{Name: "TCP_CONGESTION", String: pointer.ToString("reno")},
					{Name: "SO_LINGER", Linger: &LingerConfig{OnOff: true, Seconds: 5}},
				},
				Simulate: SimulateConfig{
					Subflows:    2,
					RTT:         10 * time.Millisecond,
					Failures:    []FailureConfig{{Subflow: 1, Option: "TCP_NODELAY", Errno: "EPERM"}},
					LateSubflow: pointer.ToBool(true),
				},
			},
		},
		{
			name: "success: overrides",
			path: "testdata/apply.yaml",
			want: &Config{
				LogLevel: "info",
				Subflows: []SubflowConfig{
					{Remote: "192.0.2.1:443", Local: "10.0.0.1:0"},
					{Remote: "192.0.2.1:443"},
				},
				Dial: DialConfig{Timeout: 2 * time.Second, MaxAttempt: 1, BaseInterval: 100 * time.Millisecond},
				Options: []OptionConfig{
					{Name: "SO_KEEPALIVE", Int: pointer.ToInt32(1)},
					{Name: "TCP_KEEPIDLE", Int: pointer.ToInt32(30)},
				},
				Metrics: MetricsConfig{Listen: "127.0.0.1:9100"},
				Simulate: SimulateConfig{
					Subflows:    2,
					RTT:         10 * time.Millisecond,
					LateSubflow: pointer.ToBool(false),
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadConf(tt.path)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	t.Run("failure: missing file", func(t *testing.T) {
		_, err := ReadConf("testdata/missing.yaml")
		assert.Error(t, err)
	})
}

func TestLoadConf_Defaults(t *testing.T) {
	conf, err := loadConf("")
	require.NoError(t, err)
	assert.Equal(t, "info", conf.LogLevel)
	assert.Equal(t, 2, conf.Simulate.Subflows)
	assert.True(t, pointer.GetBool(conf.Simulate.LateSubflow))
}

func TestOptionConfig_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		in      OptionConfig
		want    abi.Option
		wantVal []byte
		wantErr bool
	}{
		{
			name:    "success: int",
			in:      OptionConfig{Name: "TCP_NODELAY", Int: pointer.ToInt32(1)},
			want:    abi.Option{Level: abi.SOL_TCP, Name: abi.TCP_NODELAY},
			wantVal: abi.PutInt32(1),
		},
		{
			name:    "success: string",
			in:      OptionConfig{Name: "TCP_CONGESTION", String: pointer.ToString("cubic")},
			want:    abi.Option{Level: abi.SOL_TCP, Name: abi.TCP_CONGESTION},
			wantVal: []byte("cubic"),
		},
		{
			name:    "success: linger",
			in:      OptionConfig{Name: "SO_LINGER", Linger: &LingerConfig{OnOff: true, Seconds: 3}},
			want:    abi.Option{Level: abi.SOL_SOCKET, Name: abi.SO_LINGER},
			wantVal: abi.Marshal(&abi.Linger{OnOff: 1, Linger: 3}),
		},
		{
			name:    "failure: unknown name",
			in:      OptionConfig{Name: "TCP_UNKNOWN", Int: pointer.ToInt32(1)},
			wantErr: true,
		},
		{
			name:    "failure: no value",
			in:      OptionConfig{Name: "TCP_NODELAY"},
			wantErr: true,
		},
		{
			name:    "failure: two values",
			in:      OptionConfig{Name: "TCP_NODELAY", Int: pointer.ToInt32(1), String: pointer.ToString("1")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, val, err := tt.in.Resolve()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantVal, val)
		})
	}
}
