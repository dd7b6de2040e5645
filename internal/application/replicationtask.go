package application

import (
	"context"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// ClientFactory builds a Stitch client bound to the given credentials.
type ClientFactory func(creds model.StitchCredentials) driven.StitchClient

// ReplicationTask adapts the Stitch client to a unit of work. Orchestrators
// register its StartReplicationJob method value directly.
type ReplicationTask struct {
	newClient ClientFactory
}

// NewReplicationTask creates a task that builds a fresh client per call.
func NewReplicationTask(newClient ClientFactory) *ReplicationTask {
	return &ReplicationTask{newClient: newClient}
}

// StartReplicationJob starts a Stitch replication job for sourceID and returns
// the client's result or error unchanged.
func (t *ReplicationTask) StartReplicationJob(ctx context.Context, creds model.StitchCredentials, sourceID int64) (model.ReplicationResponse, error) {
	return t.newClient(creds).StartReplicationJob(ctx, sourceID)
}
