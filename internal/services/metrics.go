// Package services – Prometheus instrumentation
//
// This file exposes the domain-level collectors: message capture volume,
// summary generation outcomes and latency, and retention purge counts. Label
// sets are kept small and closed (style and backend come from fixed sets,
// outcome is one of ok/error/empty) so cardinality stays bounded.
package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeEmpty = "empty"
)

var (
	// messagesStored counts messages persisted to the log, split by whether
	// the row was new or a duplicate delivery that was dropped.
	messagesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_stored_total",
			Help: "Total messages offered to the log, by result.",
		},
		[]string{"result"}, // stored | duplicate
	)

	// summariesTotal counts summary requests by backend, style, and outcome.
	summariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total summary generations, by backend, style, and outcome.",
		},
		[]string{"backend", "style", "outcome"},
	)

	// summaryDuration records end-to-end backend latency per summary.
	// Buckets lean long: generation regularly takes multiple seconds.
	summaryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summary_duration_seconds",
			Help:    "Duration of summary generation in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
		[]string{"backend"},
	)

	// messagesPurged counts rows removed by retention sweeps.
	messagesPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_purged_total",
			Help: "Total messages removed by retention sweeps.",
		},
	)
)

func init() {
	prometheus.MustRegister(messagesStored, summariesTotal, summaryDuration, messagesPurged)
}
