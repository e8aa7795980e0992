// Package lifecycle holds the job status rules: which transitions are legal
// and what the canonical next step is. Pure functions, no state.
package lifecycle

import "github.com/fridgeseal/sealtrack/internal/model"

// ordered is the progression a job walks from intake to payment. On Hold and
// Cancelled sit outside it and have no index.
var ordered = []model.JobStatus{
	model.StatusNew,
	model.StatusNeedToMeasure,
	model.StatusMeasured,
	model.StatusQuoted,
	model.StatusWaitingApproval,
	model.StatusApproved,
	model.StatusInProduction,
	model.StatusReadyForInstall,
	model.StatusScheduled,
	model.StatusInProgress,
	model.StatusCompleted,
	model.StatusInvoiced,
	model.StatusPaid,
}

var orderIndex = func() map[model.JobStatus]int {
	m := make(map[model.JobStatus]int, len(ordered))
	for i, s := range ordered {
		m[s] = i
	}
	return m
}()

// All returns every status in display order, side states last.
func All() []model.JobStatus {
	out := make([]model.JobStatus, 0, len(ordered)+2)
	out = append(out, ordered...)
	return append(out, model.StatusOnHold, model.StatusCancelled)
}

// Ordered returns just the progression states, New through Paid.
func Ordered() []model.JobStatus {
	out := make([]model.JobStatus, len(ordered))
	copy(out, ordered)
	return out
}

// CanTransition reports whether a job may move from one status to another.
// Cancelled is terminal: nothing leaves it, not even a move to On Hold. The
// side states are otherwise reachable from anywhere, ops can park or kill a
// job at any stage. A job resuming from On Hold may re-enter the progression
// at any point. Within the progression, forward moves of any distance are
// allowed plus a one-step backward correction.
func CanTransition(from, to model.JobStatus) bool {
	if from == model.StatusCancelled {
		return false
	}
	if to == model.StatusOnHold || to == model.StatusCancelled {
		return true
	}
	iTo, ok := orderIndex[to]
	if !ok {
		return false
	}
	if from == model.StatusOnHold {
		return true
	}
	iFrom, ok := orderIndex[from]
	if !ok {
		return false
	}
	return iTo >= iFrom-1
}

// NextStatus returns the immediate successor in the progression, or "" when
// there is none (Paid, or a side state).
func NextStatus(current model.JobStatus) model.JobStatus {
	i, ok := orderIndex[current]
	if !ok || i+1 >= len(ordered) {
		return ""
	}
	return ordered[i+1]
}

// PreviousStatus returns the immediate predecessor in the progression, or ""
// at New and for side states.
func PreviousStatus(current model.JobStatus) model.JobStatus {
	i, ok := orderIndex[current]
	if !ok || i == 0 {
		return ""
	}
	return ordered[i-1]
}

// Valid reports whether s is a known status.
func Valid(s model.JobStatus) bool {
	if _, ok := orderIndex[s]; ok {
		return true
	}
	return s == model.StatusOnHold || s == model.StatusCancelled
}
