// Package metrics exposes Prometheus counters for store operations.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fridgeseal/sealtrack/internal/model"
)

var (
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sealtrack_store_operations_total",
			Help: "Total store operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	ActivitiesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sealtrack_activities_total",
			Help: "Total activity records appended",
		},
	)

	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sealtrack_snapshot_saves_total",
			Help: "Total snapshot persistence writes",
		},
		[]string{"outcome"},
	)
)

// ObserveOp records one store operation with a coarse outcome label.
func ObserveOp(op string, err error) {
	StoreOpsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInvalidTransition):
		return "invalid_transition"
	default:
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return "validation"
		}
		return "error"
	}
}
