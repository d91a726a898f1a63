package interview

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interview_sessions_started_total",
		Help: "Count of interview sessions created.",
	})

	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_answers_total",
			Help: "Count of recorded answers by kind.",
		},
		[]string{"answer"},
	)

	QuestionsServedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interview_questions_served_total",
		Help: "Count of questions handed to clients by the selector.",
	})
)

func init() {
	prometheus.MustRegister(SessionsStartedTotal, AnswersTotal, QuestionsServedTotal)
}
