package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// ErrNoCredentials is returned by Trigger when no Stitch access token has
// been configured through the environment or the credential store.
var ErrNoCredentials = errors.New("no Stitch credentials configured")

// DefaultRunListLimit caps run listings when the caller passes no limit.
const DefaultRunListLimit = 50

// StartJobFunc is the unit of work the service runs; ReplicationTask's
// StartReplicationJob method value satisfies it.
type StartJobFunc func(ctx context.Context, creds model.StitchCredentials, sourceID int64) (model.ReplicationResponse, error)

// ReplicationService runs replication triggers as tracked units of work:
// each call is recorded as a run that moves from requested to succeeded or
// failed exactly once.
type ReplicationService struct {
	startJob StartJobFunc
	creds    *CredentialProvider
	runStore driven.RunStore
	metrics  driven.RunMetrics
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewReplicationService creates a ReplicationService. metrics may be nil.
func NewReplicationService(
	startJob StartJobFunc,
	creds *CredentialProvider,
	runStore driven.RunStore,
	metrics driven.RunMetrics,
	logger *slog.Logger,
) *ReplicationService {
	return &ReplicationService{
		startJob: startJob,
		creds:    creds,
		runStore: runStore,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Trigger starts a replication job for sourceID and records the outcome.
// The returned error is the task's error, unchanged, so callers can match
// *model.ConfigurationError and *model.RemoteCallError. The run is returned
// even when the task fails.
func (s *ReplicationService) Trigger(ctx context.Context, sourceID int64) (model.ReplicationRun, error) {
	creds, ok := s.creds.Get()
	if !ok {
		return model.ReplicationRun{}, ErrNoCredentials
	}

	run := model.ReplicationRun{
		ID:          s.newID(),
		SourceID:    sourceID,
		Status:      model.RunStatusRequested,
		RequestedAt: s.now().UTC(),
	}
	if err := s.runStore.Create(ctx, run); err != nil {
		return model.ReplicationRun{}, err
	}
	s.logger.Info("replication job requested", "run_id", run.ID, "source_id", sourceID)

	response, taskErr := s.startJob(ctx, creds, sourceID)

	finishedAt := s.now().UTC()
	run.FinishedAt = &finishedAt
	if taskErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = taskErr.Error()
		s.logger.Warn("replication job failed",
			"run_id", run.ID,
			"source_id", sourceID,
			"error", taskErr,
		)
	} else {
		run.Status = model.RunStatusSucceeded
		run.Response = response
		s.logger.Info("replication job started",
			"run_id", run.ID,
			"source_id", sourceID,
			"duration", run.Duration(),
		)
	}

	// The outcome is recorded even if the caller's context is already done.
	if err := s.runStore.Finish(context.WithoutCancel(ctx), run.ID, run.Status, run.Response, run.Error, finishedAt); err != nil {
		s.logger.Error("failed to record replication run outcome", "run_id", run.ID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(run.Status, run.Duration())
	}

	return run, taskErr
}

// GetRun returns one recorded run, or driven.ErrRunNotFound.
func (s *ReplicationService) GetRun(ctx context.Context, id string) (*model.ReplicationRun, error) {
	return s.runStore.Get(ctx, id)
}

// ListRuns returns recent runs, optionally filtered to one source when
// sourceID is positive. A non-positive limit uses DefaultRunListLimit.
func (s *ReplicationService) ListRuns(ctx context.Context, sourceID int64, limit int) ([]model.ReplicationRun, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	if sourceID > 0 {
		return s.runStore.ListBySource(ctx, sourceID, limit)
	}
	return s.runStore.ListRecent(ctx, limit)
}
