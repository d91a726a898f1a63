package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_match_latency_seconds",
		Help:    "Latency of the matches endpoints",
		Buckets: prometheus.DefBuckets,
	})

	NextQuestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "interview_next_question_latency_seconds",
		Help:    "Latency of the next-question endpoint",
		Buckets: prometheus.DefBuckets,
	})

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)

func Init() {
	prometheus.MustRegister(MatchDuration, NextQuestionDuration, RequestsTotal)
}
