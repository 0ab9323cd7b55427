package store

import "github.com/prometheus/client_golang/prometheus"

type storeMetrics struct {
	sets          prometheus.Counter
	gets          prometheus.Counter
	getMisses     prometheus.Counter
	appendedBytes prometheus.Counter
	keys          prometheus.Gauge
}

func newStoreMetrics(registerer prometheus.Registerer) *storeMetrics {
	m := &storeMetrics{
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sets_total",
			Help: "Total number of set operations.",
		}),
		gets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gets_total",
			Help: "Total number of get operations that hit the index.",
		}),
		getMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "get_misses_total",
			Help: "Total number of get operations for unknown keys.",
		}),
		appendedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appended_bytes_total",
			Help: "Total number of record bytes appended to the log.",
		}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "keys",
			Help: "Number of live keys in the index.",
		}),
	}

	registerer.MustRegister(m.sets, m.gets, m.getMisses, m.appendedBytes, m.keys)

	return m
}
