package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culture_corpus_submissions_total",
			Help: "Total submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	ValidationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "culture_corpus_validation_duration_seconds",
			Help:    "Content validation duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method"},
	)

	ValidationMethodTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culture_corpus_validation_method_total",
			Help: "Verdicts produced per validation backend",
		},
		[]string{"method"},
	)

	QualityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "culture_corpus_quality_score",
			Help:    "Quality scores assigned to submissions",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	CorpusEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "culture_corpus_entries_total",
			Help: "Current number of corpus entries",
		},
	)

	AppendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "culture_corpus_append_failures_total",
			Help: "Corpus append attempts that failed to persist",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culture_corpus_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "culture_corpus_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	FeedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "culture_corpus_feed_clients",
			Help: "Connected live feed websocket clients",
		},
	)

	UsersRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "culture_corpus_users_registered_total",
			Help: "Total user registrations",
		},
	)
)

func Init() {
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(ValidationMethodTotal)
	prometheus.MustRegister(QualityScore)
	prometheus.MustRegister(CorpusEntries)
	prometheus.MustRegister(AppendFailures)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(FeedClients)
	prometheus.MustRegister(UsersRegistered)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
