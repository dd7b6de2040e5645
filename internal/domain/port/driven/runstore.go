package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// Sentinel errors returned by RunStore implementations.
var (
	// ErrRunNotFound indicates the requested replication run does not exist.
	ErrRunNotFound = errors.New("replication run not found")

	// ErrRunAlreadyFinished indicates an attempt to finish a run that already
	// reached a terminal status.
	ErrRunAlreadyFinished = errors.New("replication run already finished")
)

// RunStore defines the driven port for replication run history.
// Create inserts a run in the requested status. Finish moves a requested run
// to a terminal status exactly once; it returns ErrRunNotFound or
// ErrRunAlreadyFinished otherwise.
type RunStore interface {
	Create(ctx context.Context, run model.ReplicationRun) error
	Finish(ctx context.Context, id string, status model.RunStatus, response model.ReplicationResponse, errMsg string, finishedAt time.Time) error
	Get(ctx context.Context, id string) (*model.ReplicationRun, error)
	ListRecent(ctx context.Context, limit int) ([]model.ReplicationRun, error)
	ListBySource(ctx context.Context, sourceID int64, limit int) ([]model.ReplicationRun, error)
}
