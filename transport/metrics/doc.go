// Package metrics provides subflow metrics collection interfaces and implementations.
//
// # MetricsProvider
//
// MetricsProvider is an interface for retrieving subflow metrics such as RTT, RTTVAR,
// congestion window, and bytes in flight. The subflow scheduler in transport/multi uses
// these metrics to pick the subflow that carries the next write.
//
// # Implementations
//
// TCPInfoProvider:
//   - Reads TCP_INFO through the subflow's option primitive (transport.OptionConn)
//   - Works with any subflow implementation, including in-memory subflows
//   - Periodically updates metrics in the background (default: 100ms)
//   - Manages bytesInFlight at the application layer
//
// noopMetricsProvider:
//   - Returns fixed defaults for subflows whose TCP_INFO is unavailable
package metrics
