package metrics

import (
	"time"

	"github.com/aptpod/mptcp-go/abi"
)

// MetricsProvider は、サブフローのメトリクスを読み出すインターフェースです。
//
// 実装は並行アクセスに対して安全である必要があります。
type MetricsProvider interface {
	// RTT は、平滑化RTTを返します。未測定の場合はデフォルト値を返します。
	RTT() time.Duration

	// RTTVar は、RTTの変動を返します。未測定の場合はデフォルト値を返します。
	RTTVar() time.Duration

	// CongestionWindow は、輻輳ウィンドウをバイト単位で返します。
	CongestionWindow() uint64

	// BytesInFlight は、書き込み中のバイト数を返します。
	BytesInFlight() uint64
}

// LifeCycler は、バックグラウンドでの収集のライフサイクルです。
type LifeCycler interface {
	// Start は、収集を開始します。2回目以降の呼び出しはエラーです。
	Start() error

	// Stop は、収集を終了します。複数回呼び出しても安全です。
	// 終了後も MetricsProvider のメソッドは最後の値を返します。
	Stop()
}

// InFlightTracker は、書き込み中のバイト数をアプリケーション側で追跡します。
type InFlightTracker interface {
	AddBytesInFlight(n uint64)
	SubBytesInFlight(n uint64)
}

// ManagedMetricsProvider は、スケジューラがサブフローごとに保持するプロバイダーです。
type ManagedMetricsProvider interface {
	MetricsProvider
	LifeCycler
	InFlightTracker
}

// NewProvider は、conn から TCP_INFO を読み出せる場合は TCPInfoProvider を、
// 読み出せない場合はデフォルト値を返すプロバイダーを返却します。
func NewProvider(conn OptionGetter, interval time.Duration) ManagedMetricsProvider {
	buf := make([]byte, abi.SizeOfTCPInfo)
	if _, err := conn.GetOption(abi.SOL_TCP, abi.TCP_INFO, buf); err != nil {
		return NewNopMetricsProvider()
	}
	return NewTCPInfoProvider(conn, interval)
}
