package main

import (
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/goccy/go-yaml"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/internal/retry"
	"github.com/aptpod/mptcp-go/transport/tcp"
)

type Config struct {
	SessionID string `yaml:"sessionId"`
	LogLevel  string `yaml:"logLevel"`

	Subflows []SubflowConfig `yaml:"subflows"`
	Dial     DialConfig      `yaml:"dial"`

	Options []OptionConfig `yaml:"options"`

	Metrics  MetricsConfig  `yaml:"metrics"`
	Simulate SimulateConfig `yaml:"simulate"`
}

type SubflowConfig struct {
	Local  string `yaml:"local"`
	Remote string `yaml:"remote"`
}

type DialConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempt   int           `yaml:"maxAttempt"`
	BaseInterval time.Duration `yaml:"baseInterval"`
}

// OptionConfig は、setsockopt で設定する1つのオプションです。値は Int, String, Linger のいずれか1つを指定します。
type OptionConfig struct {
	Name   string        `yaml:"name"`
	Int    *int32        `yaml:"int,omitempty"`
	String *string       `yaml:"string,omitempty"`
	Linger *LingerConfig `yaml:"linger,omitempty"`
}

type LingerConfig struct {
	OnOff   bool  `yaml:"onoff"`
	Seconds int32 `yaml:"seconds"`
}

type MetricsConfig struct {
	// 空の場合は /metrics を公開しません。
	Listen string `yaml:"listen"`
}

type SimulateConfig struct {
	Subflows int             `yaml:"subflows"`
	RTT      time.Duration   `yaml:"rtt"`
	Failures []FailureConfig `yaml:"failures"`
	// オプションの適用後に遅れて参加するサブフローを追加するかどうかです。
	LateSubflow *bool `yaml:"lateSubflow"`
}

// FailureConfig は、シミュレーションのサブフローに注入する失敗です。
type FailureConfig struct {
	Subflow int    `yaml:"subflow"`
	Option  string `yaml:"option"`
	Errno   string `yaml:"errno"`
}

func (c Config) String() string {
	m, err := yaml.MarshalWithOptions(c, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return "marshalling error..."
	}
	return string(m)
}

func (c *Config) UnmarshalYAML(b []byte) error {
	// UnmarshalYAML の再帰呼び出しを避ける
	type config Config

	def := &config{
		LogLevel: "info",
		Dial:     defaultDialConfig(),
		Simulate: defaultSimulateConfig(),
	}

	if err := yaml.Unmarshal(b, def); err != nil {
		return err
	}

	*c = Config(*def)

	return nil
}

func defaultDialConfig() DialConfig {
	return DialConfig{
		Timeout:      5 * time.Second,
		MaxAttempt:   3,
		BaseInterval: 100 * time.Millisecond,
	}
}

func (c *DialConfig) UnmarshalYAML(b []byte) error {
	type dialConfig DialConfig

	def := dialConfig(defaultDialConfig())
	if err := yaml.Unmarshal(b, &def); err != nil {
		return err
	}

	*c = DialConfig(def)

	return nil
}

func defaultSimulateConfig() SimulateConfig {
	return SimulateConfig{
		Subflows:    2,
		RTT:         10 * time.Millisecond,
		LateSubflow: pointer.ToBool(true),
	}
}

func (c *SimulateConfig) UnmarshalYAML(b []byte) error {
	type simulateConfig SimulateConfig

	def := simulateConfig(defaultSimulateConfig())
	if err := yaml.Unmarshal(b, &def); err != nil {
		return err
	}

	*c = SimulateConfig(def)

	return nil
}

func ReadConf(path string) (*Config, error) {
	r, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading the configuration file: %w", err)
	}

	conf := Config{}
	if err := yaml.Unmarshal(r, &conf); err != nil {
		return nil, fmt.Errorf("error unmarshaling the configuration: %w", err)
	}

	return &conf, nil
}

// Resolve は、オプション名を解決し、setsockopt に渡す値を返却します。
func (o OptionConfig) Resolve() (abi.Option, []byte, error) {
	opt, err := o.option()
	if err != nil {
		return abi.Option{}, nil, err
	}

	set := 0
	var val []byte
	if o.Int != nil {
		set++
		val = abi.PutInt32(*o.Int)
	}
	if o.String != nil {
		set++
		val = []byte(*o.String)
	}
	if o.Linger != nil {
		set++
		l := abi.Linger{Linger: o.Linger.Seconds}
		if o.Linger.OnOff {
			l.OnOff = 1
		}
		val = abi.Marshal(&l)
	}
	if set != 1 {
		return abi.Option{}, nil, fmt.Errorf("option %s needs exactly one of int, string or linger", o.Name)
	}
	return opt, val, nil
}

func (o OptionConfig) option() (abi.Option, error) {
	opt, ok := abi.LookupOption(o.Name)
	if !ok {
		return abi.Option{}, fmt.Errorf("unknown option %q", o.Name)
	}
	return opt, nil
}

func (c DialConfig) dialer() *tcp.Dialer {
	return &tcp.Dialer{
		Retry: retry.Retry{
			MaxAttempt:   c.MaxAttempt,
			BaseInterval: c.BaseInterval,
		},
	}
}

func (c SubflowConfig) dialConfig() (tcp.DialConfig, error) {
	res := tcp.DialConfig{RemoteAddr: c.Remote}
	if c.Local == "" {
		return res, nil
	}
	addr, err := net.ResolveTCPAddr("tcp", c.Local)
	if err != nil {
		return res, fmt.Errorf("error resolving local address %q: %w", c.Local, err)
	}
	res.LocalAddr = addr
	return res, nil
}

var errnoNames = map[string]syscall.Errno{
	"EPERM":       syscall.EPERM,
	"EINVAL":      syscall.EINVAL,
	"ENOMEM":      syscall.ENOMEM,
	"EFAULT":      syscall.EFAULT,
	"EAGAIN":      syscall.EAGAIN,
	"ENOPROTOOPT": syscall.ENOPROTOOPT,
	"EOPNOTSUPP":  syscall.EOPNOTSUPP,
	"ENOTCONN":    syscall.ENOTCONN,
}

func (f FailureConfig) errno() (syscall.Errno, error) {
	if f.Errno == "" {
		return syscall.EPERM, nil
	}
	errno, ok := errnoNames[f.Errno]
	if !ok {
		return 0, fmt.Errorf("unknown errno %q", f.Errno)
	}
	return errno, nil
}
