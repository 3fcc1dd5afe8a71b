// Package metrics provides Prometheus metrics for the motion sequencer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request results. Kept small to avoid label cardinality growth.
const (
	ResultQueued          = "queued"
	ResultDeduped         = "deduped"
	ResultInvalidHash     = "invalid_hash"
	ResultNoController    = "no_controller"
	ResultUnknownSequence = "unknown_sequence"
)

// Promotion kinds.
const (
	PromotionQueued    = "queued"
	PromotionImmediate = "immediate"
)

var (
	// SequenceRequestsTotal counts sequence requests by outcome.
	SequenceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mseq_sequence_requests_total",
		Help: "Total number of sequence requests, by result.",
	}, []string{"result"})

	// TransitionsInsertedTotal counts transition sequences inserted ahead of a target.
	TransitionsInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mseq_transitions_inserted_total",
		Help: "Total number of posture transition sequences inserted.",
	})

	// InvalidTransitionsTotal counts transition lookups with out-of-range postures.
	InvalidTransitionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mseq_invalid_transitions_total",
		Help: "Total number of transition lookups skipped because a posture was out of range.",
	})

	// PromotionsTotal counts queued motions promoted to active, by kind.
	PromotionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mseq_promotions_total",
		Help: "Total number of queued motions promoted to active, by kind.",
	}, []string{"kind"})

	// PromotionFailuresTotal counts promotion attempts on an empty queue.
	PromotionFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mseq_promotion_failures_total",
		Help: "Total number of promotions attempted with an empty queue.",
	})

	// InterruptsTotal counts interrupt notifications emitted.
	InterruptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mseq_interrupts_total",
		Help: "Total number of interrupt notifications emitted for running motions.",
	})

	// RepeatsTotal counts repeat cycles consumed by active motions.
	RepeatsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mseq_repeats_total",
		Help: "Total number of repeat cycles consumed.",
	})

	// ReloadsTotal counts definition reloads by result.
	ReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mseq_defs_reloads_total",
		Help: "Total number of sequencer definition reloads, by result.",
	}, []string{"result"})

	// QueuedMotions tracks pending motions across all controllers.
	QueuedMotions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mseq_queued_motions",
		Help: "Current number of pending motions across all controllers.",
	})

	// SystemUpdateSeconds times each ECS system per tick.
	SystemUpdateSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mseq_system_update_seconds",
		Help:    "Time spent in one system update, by system.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"system"})
)

// RecordRequest increments the request counter for a result.
func RecordRequest(result string) {
	SequenceRequestsTotal.WithLabelValues(result).Inc()
}

// RecordPromotion increments the promotion counter.
func RecordPromotion(immediate bool) {
	kind := PromotionQueued
	if immediate {
		kind = PromotionImmediate
	}
	PromotionsTotal.WithLabelValues(kind).Inc()
}

// ObserveSystem records one system update.
func ObserveSystem(system string, elapsed time.Duration) {
	SystemUpdateSeconds.WithLabelValues(system).Observe(elapsed.Seconds())
}

// RecordReload increments the reload counter.
func RecordReload(err error) {
	if err != nil {
		ReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	ReloadsTotal.WithLabelValues("ok").Inc()
}
