package driven

import (
	"context"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// StitchClient defines the driven port for the Stitch API.
type StitchClient interface {
	// StartReplicationJob asks Stitch to start a replication job for the
	// source. It returns *model.ConfigurationError when sourceID is missing
	// and *model.RemoteCallError when Stitch rejects or cannot serve the call.
	StartReplicationJob(ctx context.Context, sourceID int64) (model.ReplicationResponse, error)
}
