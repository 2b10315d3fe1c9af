/*
Package prometheus は、セッションの操作を Prometheus のメトリクスとして公開する mptcp.Observer を提供します。

	reg := prometheus.NewRegistry()
	obs, err := mptcpprom.NewObserver(reg)
	if err != nil {
		return err
	}
	sess, err := mptcp.NewSession(mptcp.WithSessionObserver(obs))
*/
package prometheus

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/mptcp"
)

var _ mptcp.Observer = (*Observer)(nil)

const namespace = "mptcp"

// ラベルは常に文字列です。
//
//	level: ソケットオプションのレベル (SOL_TCP など)
//	name: ソケットオプションの名前 (TCP_NODELAY など)
//	result: 成功時は "ok"、失敗時は呼び出し元へ返却される errno の説明
var optionLabels = []string{"level", "name", "result"}

type metrics struct {
	SetOptions *prometheus.CounterVec
	GetOptions *prometheus.CounterVec

	FanoutApplied *prometheus.CounterVec
	FanoutFailed  *prometheus.CounterVec

	Syncs *prometheus.CounterVec

	SeqBumps   prometheus.Counter
	SeqCounter prometheus.Gauge

	SlowLocks prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		SetOptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setsockopt_total",
			Help:      "Number of setsockopt requests handled by the session",
		}, optionLabels),
		GetOptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "getsockopt_total",
			Help:      "Number of getsockopt requests handled by the session",
		}, optionLabels),

		FanoutApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_applied_total",
			Help:      "Number of subflows an option was successfully applied to",
		}, []string{"level", "name"}),
		FanoutFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_failed_total",
			Help:      "Number of subflows an option failed to apply to",
		}, []string{"level", "name"}),

		Syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subflow_syncs_total",
			Help:      "Number of lazy subflow synchronisations",
		}, []string{"replayed", "result"}),

		SeqBumps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seq_bumps_total",
			Help:      "Number of session configuration sequence bumps",
		}),
		SeqCounter: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seq_counter",
			Help:      "Counter part of the latest session configuration sequence",
		}),

		SlowLocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subflow_slow_locks_total",
			Help:      "Number of subflow lock acquisitions that had to wait",
		}),
	}
}

// 全てのフィールドを個別に登録しなくて済むようにリフレクションを使います。
func (m *metrics) register(reg prometheus.Registerer) error {
	v := reflect.ValueOf(*m)
	for i := 0; i < v.NumField(); i++ {
		c, ok := v.Field(i).Interface().(prometheus.Collector)
		if !ok {
			return fmt.Errorf("field %s is not a collector", v.Type().Field(i).Name)
		}
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register %s: %w", v.Type().Field(i).Name, err)
		}
	}
	return nil
}

/*
Observer は、セッションの操作を Prometheus のカウンタへ記録する mptcp.Observer です。

複数のセッションで1つの Observer を共有できます。
*/
type Observer struct {
	m *metrics
}

// NewObserver は、メトリクスを reg へ登録した Observer を返却します。
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	m := newMetrics()
	if err := m.register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return &Observer{m: m}, nil
}

func result(err error) string {
	if err == nil {
		return "ok"
	}
	return errors.Errno(err).Error()
}

func (o *Observer) OnSetOption(level, name int, err error) {
	o.m.SetOptions.WithLabelValues(abi.LevelName(level), abi.OptionName(level, name), result(err)).Inc()
}

func (o *Observer) OnGetOption(level, name int, err error) {
	o.m.GetOptions.WithLabelValues(abi.LevelName(level), abi.OptionName(level, name), result(err)).Inc()
}

func (o *Observer) OnFanout(level, name int, applied, failed int) {
	l, n := abi.LevelName(level), abi.OptionName(level, name)
	o.m.FanoutApplied.WithLabelValues(l, n).Add(float64(applied))
	o.m.FanoutFailed.WithLabelValues(l, n).Add(float64(failed))
}

func (o *Observer) OnSync(replayed bool, err error) {
	o.m.Syncs.WithLabelValues(strconv.FormatBool(replayed), result(err)).Inc()
}

func (o *Observer) OnSeqBump(seq mptcp.Seq) {
	o.m.SeqBumps.Inc()
	o.m.SeqCounter.Set(float64(seq.Counter))
}

func (o *Observer) OnSlowLock() {
	o.m.SlowLocks.Inc()
}
