package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitapp_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "fitapp_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// DaysClosed counts day transitions, labeled by whether the day was
	// skipped or actually completed.
	DaysClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitapp_days_closed_total",
			Help: "Total day close transitions",
		},
		[]string{"skipped"},
	)

	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitapp_reminders_sent_total",
			Help: "Reminder notifications delivered",
		},
	)

	RemindersFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitapp_reminders_failed_total",
			Help: "Reminder notifications that failed per recipient",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, DaysClosed, RemindersSent, RemindersFailed)
}
