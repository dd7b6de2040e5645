package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// triggerErrorResponse is returned when Stitch refused the job; the failed
// run is included so callers can look it up later.
type triggerErrorResponse struct {
	Error string      `json:"error"`
	Run   RunResponse `json:"run"`
}

// RunResponse is the JSON representation of a replication run. Response is
// null until a run succeeds; an empty Stitch body stays an empty object.
type RunResponse struct {
	ID          string                    `json:"id"`
	SourceID    int64                     `json:"source_id"`
	Status      string                    `json:"status"`
	Error       string                    `json:"error,omitempty"`
	Response    model.ReplicationResponse `json:"response"`
	RequestedAt string                    `json:"requested_at"`
	FinishedAt  string                    `json:"finished_at,omitempty"`
	DurationMS  int64                     `json:"duration_ms"`
}

// CredentialResponse is the JSON representation of a stored credential.
// Value always renders as the redaction marker.
type CredentialResponse struct {
	Service   string       `json:"service"`
	Value     model.Secret `json:"value"`
	UpdatedAt string       `json:"updated_at"`
}

// SetCredentialsRequest is the JSON body for the set credentials endpoint.
type SetCredentialsRequest struct {
	AccessToken string `json:"access_token"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toRunResponse converts a domain ReplicationRun to its JSON representation.
func toRunResponse(run model.ReplicationRun) RunResponse {
	resp := RunResponse{
		ID:          run.ID,
		SourceID:    run.SourceID,
		Status:      string(run.Status),
		Error:       run.Error,
		Response:    run.Response,
		RequestedAt: run.RequestedAt.UTC().Format(time.RFC3339Nano),
		DurationMS:  run.Duration().Milliseconds(),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	return resp
}

// toCredentialResponse converts a stored Credential to its JSON representation.
func toCredentialResponse(c model.Credential) CredentialResponse {
	return CredentialResponse{
		Service:   c.Service,
		Value:     c.Value,
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
