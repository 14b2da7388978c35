package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/wishlist"
	"github.com/agentstation/wishlist/pkg/collection"
)

const metricsNamespace = "wishlist"

// Metrics owns the server's Prometheus registry: HTTP request metrics
// plus a collector reading the store counters at scrape time.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec
}

// NewMetrics creates a registry with HTTP metrics and, when store is not
// nil, the store collector.
func NewMetrics(store wishlist.Store) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"route"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(requests, latency, collectors.NewGoCollector())
	if store != nil {
		registry.MustRegister(newStoreCollector(store))
	}
	return &Metrics{registry: registry, requests: requests, latencyMS: latency}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latencyMS.WithLabelValues(route).Observe(float64(elapsed) / float64(time.Millisecond))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// storeCollector exports wishlist.Stats.
type storeCollector struct {
	store       wishlist.Store
	dispatches  *prometheus.Desc
	noops       *prometheus.Desc
	persist     *prometheus.Desc
	items       *prometheus.Desc
	subscribers *prometheus.Desc
	hydration   *prometheus.Desc
}

func newStoreCollector(store wishlist.Store) *storeCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "store", name), help, labels, nil)
	}
	return &storeCollector{
		store:       store,
		dispatches:  desc("dispatches_total", "Actions dispatched, by action type.", "action"),
		noops:       desc("noop_dispatches_total", "Dispatches that left the wishlist unchanged."),
		persist:     desc("persist_total", "Snapshot writes, by result.", "result"),
		items:       desc("items", "Items currently on the wishlist."),
		subscribers: desc("subscribers", "Registered change listeners."),
		hydration:   desc("hydration", "Startup load outcome; 1 for the current outcome.", "outcome"),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.dispatches
	ch <- c.noops
	ch <- c.persist
	ch <- c.items
	ch <- c.subscribers
	ch <- c.hydration
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.store.Stats()

	for _, action := range []collection.ActionType{collection.ActionAdd, collection.ActionRemove, collection.ActionLoad} {
		ch <- prometheus.MustNewConstMetric(c.dispatches, prometheus.CounterValue, float64(st.Dispatches[action]), action.String())
	}
	ch <- prometheus.MustNewConstMetric(c.noops, prometheus.CounterValue, float64(st.NoOps))
	ch <- prometheus.MustNewConstMetric(c.persist, prometheus.CounterValue, float64(st.PersistSucceeded), "succeeded")
	ch <- prometheus.MustNewConstMetric(c.persist, prometheus.CounterValue, float64(st.PersistFailed), "failed")
	ch <- prometheus.MustNewConstMetric(c.persist, prometheus.CounterValue, float64(st.PersistDropped), "dropped")
	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(st.Items))
	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(st.Subscribers))
	ch <- prometheus.MustNewConstMetric(c.hydration, prometheus.GaugeValue, 1, string(st.Hydration))
}
