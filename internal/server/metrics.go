package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/grahms/bbweaver"
)

// Metrics records render activity. It doubles as an engine event sink so
// per-tag counters are fed straight from the rendering passes.
type Metrics struct {
	renders      prometheus.Counter
	duration     prometheus.Histogram
	tagsRendered *prometheus.CounterVec
	attrsDropped *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheEntries prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg. Passing nil uses a fresh
// registry, which keeps tests independent of the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		renders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bbweaver",
			Name:      "renders_total",
			Help:      "Total number of render requests served",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bbweaver",
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds, cache lookups included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		tagsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bbweaver",
			Name:      "tags_rendered_total",
			Help:      "Total number of bracket tags rewritten to HTML",
		}, []string{"tag"}),
		attrsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bbweaver",
			Name:      "attributes_dropped_total",
			Help:      "Total number of attributes removed while rendering",
		}, []string{"tag", "reason"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "bbweaver",
			Name:      "cache_hits_total",
			Help:      "Total number of renders answered from the cache",
		}),
		cacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "bbweaver",
			Name:      "cache_entries",
			Help:      "Number of rendered documents held in the cache",
		}),
		gatherer: reg,
	}
}

// OnEvent implements bbweaver.EventSink.
func (m *Metrics) OnEvent(ev bbweaver.Event) {
	switch ev := ev.(type) {
	case bbweaver.TagRenderedEvent:
		m.tagsRendered.WithLabelValues(ev.Tag).Inc()
	case bbweaver.AttributeDroppedEvent:
		m.attrsDropped.WithLabelValues(ev.Tag, string(ev.Reason)).Inc()
	}
}

func (m *Metrics) observeRender(d time.Duration, cacheHit bool, cached int) {
	m.renders.Inc()
	m.cacheEntries.Set(float64(cached))
	m.duration.Observe(d.Seconds())
	if cacheHit {
		m.cacheHits.Inc()
	}
}
