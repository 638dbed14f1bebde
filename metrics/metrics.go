// Package metrics exposes Prometheus counters for the inspection service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	filesInspectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mp3inspect_files_inspected_total",
		Help: "Total files inspected, by outcome",
	}, []string{"outcome"})

	framesDecodedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mp3inspect_audio_frames_decoded_total",
		Help: "Total audio frames decoded",
	})

	metadataFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mp3inspect_metadata_frames_decoded_total",
		Help: "Total ID3v2 metadata frames decoded",
	})

	decodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mp3inspect_decode_errors_total",
		Help: "Total decode errors, by error kind",
	}, []string{"kind"})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mp3inspect_cache_lookups_total",
		Help: "Inspection cache lookups, by result",
	}, []string{"result"})

	inspectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mp3inspect_inspect_duration_seconds",
		Help:    "Time spent parsing one upload",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
)

// RecordInspection counts a successfully parsed file.
func RecordInspection(audioFrames, metadataFrames int, seconds float64) {
	filesInspectedTotal.WithLabelValues("ok").Inc()
	framesDecodedTotal.Add(float64(audioFrames))
	metadataFramesTotal.Add(float64(metadataFrames))
	inspectDuration.Observe(seconds)
}

// RecordDecodeError counts a file rejected by the parser.
func RecordDecodeError(kind string) {
	filesInspectedTotal.WithLabelValues("error").Inc()
	decodeErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordCacheHit() {
	cacheLookupsTotal.WithLabelValues("hit").Inc()
}

func RecordCacheMiss() {
	cacheLookupsTotal.WithLabelValues("miss").Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
