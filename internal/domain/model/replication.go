package model

import "time"

// ReplicationResponse is the decoded JSON object Stitch returns when a
// replication job is started. Its shape is not interpreted.
type ReplicationResponse map[string]any

// RunStatus is the lifecycle state of a single replication trigger.
type RunStatus string

const (
	RunStatusRequested RunStatus = "requested"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether the run can no longer change state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// ReplicationRun records one attempt to start a replication job for a source.
// Response is set only when Status is succeeded; Error only when failed.
type ReplicationRun struct {
	ID          string
	SourceID    int64
	Status      RunStatus
	Error       string
	Response    ReplicationResponse
	RequestedAt time.Time
	FinishedAt  *time.Time
}

// Duration returns the elapsed time between request and completion, or zero
// while the run is still in flight.
func (r ReplicationRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.RequestedAt)
}
