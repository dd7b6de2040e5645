package application

import (
	"context"
	"sync"
	"time"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockStitchClient struct {
	response model.ReplicationResponse
	err      error
	calls    []int64
}

func (m *mockStitchClient) StartReplicationJob(_ context.Context, sourceID int64) (model.ReplicationResponse, error) {
	m.calls = append(m.calls, sourceID)
	return m.response, m.err
}

// mockRunStore is an in-memory driven.RunStore.
type mockRunStore struct {
	mu        sync.Mutex
	runs      map[string]model.ReplicationRun
	order     []string
	createErr error
	finishErr error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{runs: map[string]model.ReplicationRun{}}
}

func (m *mockRunStore) Create(_ context.Context, run model.ReplicationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.runs[run.ID] = run
	m.order = append(m.order, run.ID)
	return nil
}

func (m *mockRunStore) Finish(_ context.Context, id string, status model.RunStatus, response model.ReplicationResponse, errMsg string, finishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finishErr != nil {
		return m.finishErr
	}
	run, ok := m.runs[id]
	if !ok {
		return driven.ErrRunNotFound
	}
	if run.Status.IsTerminal() {
		return driven.ErrRunAlreadyFinished
	}
	run.Status = status
	run.Response = response
	run.Error = errMsg
	run.FinishedAt = &finishedAt
	m.runs[id] = run
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*model.ReplicationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, driven.ErrRunNotFound
	}
	return &run, nil
}

func (m *mockRunStore) ListRecent(_ context.Context, limit int) ([]model.ReplicationRun, error) {
	return m.filter(func(model.ReplicationRun) bool { return true }, limit), nil
}

func (m *mockRunStore) ListBySource(_ context.Context, sourceID int64, limit int) ([]model.ReplicationRun, error) {
	return m.filter(func(r model.ReplicationRun) bool { return r.SourceID == sourceID }, limit), nil
}

func (m *mockRunStore) filter(keep func(model.ReplicationRun) bool, limit int) []model.ReplicationRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ReplicationRun{}
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		if run := m.runs[m.order[i]]; keep(run) {
			out = append(out, run)
		}
	}
	return out
}

// mockCredentialStore is an in-memory driven.CredentialStore.
type mockCredentialStore struct {
	values map[string]model.Secret
	getErr error
	setErr error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: map[string]model.Secret{}}
}

func (m *mockCredentialStore) Set(_ context.Context, service string, value model.Secret) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[service] = value
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, service string) (model.Secret, error) {
	if m.getErr != nil {
		return model.Secret{}, m.getErr
	}
	return m.values[service], nil
}

func (m *mockCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	out := []model.Credential{}
	for service, value := range m.values {
		out = append(out, model.Credential{Service: service, Value: value})
	}
	return out, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service string) error {
	delete(m.values, service)
	return nil
}

type observedRun struct {
	status  model.RunStatus
	elapsed time.Duration
}

type mockRunMetrics struct {
	observed []observedRun
}

func (m *mockRunMetrics) ObserveRun(status model.RunStatus, elapsed time.Duration) {
	m.observed = append(m.observed, observedRun{status: status, elapsed: elapsed})
}
