package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder forwards indexing metrics to a private Prometheus
// registry, exposed via Handler for the watch-mode /metrics endpoint.
type PrometheusRecorder struct {
	registry *prom.Registry

	indexDuration      prom.Histogram
	assetsTotal        *prom.CounterVec
	pagesWrittenTotal  prom.Counter
	contractViolations prom.Counter
	catalogSkipsTotal  prom.Counter
}

// NewPrometheusRecorder creates a recorder with its own registry including
// the standard Go and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prom.NewRegistry()
	r := &PrometheusRecorder{
		registry: reg,
		indexDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "assetindex",
			Name:      "index_duration_seconds",
			Help:      "Time spent indexing one asset file",
			Buckets:   prom.DefBuckets,
		}),
		assetsTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "assetindex",
			Name:      "assets_total",
			Help:      "Asset files processed, by result",
		}, []string{"result"}),
		pagesWrittenTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "assetindex",
			Name:      "pages_written_total",
			Help:      "HTML pages written",
		}),
		contractViolations: prom.NewCounter(prom.CounterOpts{
			Namespace: "assetindex",
			Name:      "contract_violations_total",
			Help:      "Index references that violated the resolver contract",
		}),
		catalogSkipsTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "assetindex",
			Name:      "catalog_skips_total",
			Help:      "Assets skipped because their catalog hash was unchanged",
		}),
	}
	reg.MustRegister(r.indexDuration, r.assetsTotal, r.pagesWrittenTotal, r.contractViolations, r.catalogSkipsTotal)
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return r
}

// Handler returns the /metrics HTTP handler for this recorder's registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *PrometheusRecorder) ObserveIndexDuration(d time.Duration, success bool) {
	r.indexDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncAssetResult(success bool) {
	result := "success"
	if !success {
		result = "failed"
	}
	r.assetsTotal.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) AddPagesWritten(n int) {
	r.pagesWrittenTotal.Add(float64(n))
}

func (r *PrometheusRecorder) IncContractViolation() {
	r.contractViolations.Inc()
}

func (r *PrometheusRecorder) IncCatalogSkip() {
	r.catalogSkipsTotal.Inc()
}
