package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "edgepulse"

// DurationBuckets are the upper bounds (seconds) of the request duration histogram.
var DurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Collector owns the service's metrics in a private registry, so tests and
// multiple servers in one process never share series.
type Collector struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	regions        *prometheus.CounterVec
	breaches       prometheus.Counter
	datasetRegions prometheus.Gauge
	reloads        *prometheus.CounterVec
	handler        http.Handler
}

// New returns a Collector with every family registered and zeroed.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"path", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   DurationBuckets,
		}, []string{"path"}),
		regions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_requested_total",
			Help:      "Requested regions by outcome.",
		}, []string{"result"}),
		breaches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaches_reported_total",
			Help:      "Samples above the request threshold across all reported regions.",
		}),
		datasetRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_regions",
			Help:      "Regions in the active telemetry dataset.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by outcome.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(
		c.requests,
		c.durations,
		c.regions,
		c.breaches,
		c.datasetRegions,
		c.reloads,
	)
	c.handler = promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return c
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(path string, code int, d time.Duration) {
	c.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	c.durations.WithLabelValues(path).Observe(d.Seconds())
}

// ObserveRegions records how many requested regions were reported and how
// many were skipped as unknown or empty.
func (c *Collector) ObserveRegions(reported, unknown int) {
	c.regions.WithLabelValues("reported").Add(float64(reported))
	c.regions.WithLabelValues("unknown").Add(float64(unknown))
}

// AddBreaches adds n to the reported breach counter. Counters only go up, so
// n <= 0 is ignored.
func (c *Collector) AddBreaches(n int) {
	if n <= 0 {
		return
	}
	c.breaches.Add(float64(n))
}

// SetDatasetRegions sets the dataset size gauge.
func (c *Collector) SetDatasetRegions(n int) {
	c.datasetRegions.Set(float64(n))
}

// ObserveReload records the outcome of a dataset reload.
func (c *Collector) ObserveReload(err error) {
	if err != nil {
		c.reloads.WithLabelValues("error").Inc()
		return
	}
	c.reloads.WithLabelValues("ok").Inc()
}

// Families gathers the current metric families, sorted by name. Vectors with
// no observed label set yet are omitted.
func (c *Collector) Families() ([]*dto.MetricFamily, error) {
	mfs, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}
	return mfs, nil
}

// Write encodes all families to w in the Prometheus text format.
func (c *Collector) Write(w io.Writer) error {
	mfs, err := c.Families()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ServeHTTP serves GET /metrics.
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.handler.ServeHTTP(w, r)
}
