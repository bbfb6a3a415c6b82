package cache

// metrics.go is a thin abstraction over Prometheus, adapted from the
// teacher's pkg/metrics.go. The teacher labels every metric by shard because
// arena-cache splits its keyspace across shards; this cache is a single
// global LRU — one mutex, one index, one recency list — so there is
// nothing to label by and the metrics below are unlabeled scalars.
//
// © 2025 slidecore authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink abstracts the concrete backend (Prometheus vs noop) away from
// Cache, which only ever calls these methods — never touches Prometheus
// types directly.
type metricsSink interface {
	incHit()
	incMiss()
	incEvict()
	incOverlarge()
	setResidentBytes(v int64)
	setEntryCount(v int64)
}

type noopMetrics struct{}

func (noopMetrics) incHit()                {}
func (noopMetrics) incMiss()               {}
func (noopMetrics) incEvict()              {}
func (noopMetrics) incOverlarge()          {}
func (noopMetrics) setResidentBytes(int64) {}
func (noopMetrics) setEntryCount(int64)    {}

type promMetrics struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	evictions  prometheus.Counter
	overlarge  prometheus.Counter
	resident   prometheus.Gauge
	entryCount prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "hits_total",
			Help:      "Number of Cache.Get calls that found a resident entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "misses_total",
			Help:      "Number of Cache.Get calls that found no entry.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "evictions_total",
			Help:      "Number of entries evicted from the tail to make room.",
		}),
		overlarge: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "overlarge_rejections_total",
			Help:      "Number of Put calls rejected because the value alone exceeds capacity.",
		}),
		resident: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "resident_bytes",
			Help:      "Current sum of resident entry sizes.",
		}),
		entryCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slidecore",
			Subsystem: "tile_cache",
			Name:      "entry_count",
			Help:      "Current number of entries resident in the cache.",
		}),
	}
	reg.MustRegister(pm.hits, pm.misses, pm.evictions, pm.overlarge, pm.resident, pm.entryCount)
	return pm
}

func (m *promMetrics) incHit()                  { m.hits.Inc() }
func (m *promMetrics) incMiss()                 { m.misses.Inc() }
func (m *promMetrics) incEvict()                { m.evictions.Inc() }
func (m *promMetrics) incOverlarge()            { m.overlarge.Inc() }
func (m *promMetrics) setResidentBytes(v int64) { m.resident.Set(float64(v)) }
func (m *promMetrics) setEntryCount(v int64)    { m.entryCount.Set(float64(v)) }

// newMetricsSink picks the implementation: nil registry means no metrics.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
