package prometheus

var NewMetrics = newMetrics

func MetricsOf(o *Observer) *metrics {
	return o.m
}
