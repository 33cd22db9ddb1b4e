package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	requestsTotal      *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	checkpointFires    *prometheus.CounterVec
	progressWrites     *prometheus.CounterVec
	quizResponseWrites *prometheus.CounterVec
	playbackSessions   prometheus.Gauge
	statsRequests      *prometheus.CounterVec
	uploadRejected     *prometheus.CounterVec
	uploadLatency      prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used across the API
// and the playback engine.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lumilearn_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		checkpointFires = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_checkpoint_fires_total",
			Help: "Number of quiz checkpoints fired during playback.",
		}, []string{"reason"})

		progressWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_progress_writes_total",
			Help: "Outcomes of durable video progress writes.",
		}, []string{"result"})

		quizResponseWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_quiz_response_writes_total",
			Help: "Outcomes of quiz response writes, per attempt kind.",
		}, []string{"kind", "result"})

		playbackSessions = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lumilearn_playback_sessions_active",
			Help: "Number of live playback websocket sessions.",
		})

		statsRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_stats_requests_total",
			Help: "Statistics overview requests by cache outcome.",
		}, []string{"result"})

		uploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumilearn_upload_rejected_total",
			Help: "Thumbnail uploads rejected, by reason.",
		}, []string{"reason"})

		uploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lumilearn_upload_latency_seconds",
			Help:    "Latency distribution for thumbnail uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(requestsTotal, requestLatency, checkpointFires, progressWrites, quizResponseWrites, playbackSessions, statsRequests, uploadRejected, uploadLatency)
	})
}

// Requests exposes the API request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the API latency histogram.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatency
}

// CheckpointFires exposes the checkpoint fire counter.
func CheckpointFires() *prometheus.CounterVec {
	RegisterMetrics()
	return checkpointFires
}

// ProgressWrites exposes the video progress write counter.
func ProgressWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return progressWrites
}

// QuizResponseWrites exposes the quiz response write counter.
func QuizResponseWrites() *prometheus.CounterVec {
	RegisterMetrics()
	return quizResponseWrites
}

// PlaybackSessions exposes the live playback session gauge.
func PlaybackSessions() prometheus.Gauge {
	RegisterMetrics()
	return playbackSessions
}

// StatsRequests exposes the statistics request counter.
func StatsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return statsRequests
}

// UploadRejected exposes the upload rejection counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejected
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatency
}
