package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// maxCredentialBody bounds the PUT body; a Stitch token is far smaller.
const maxCredentialBody = 16 << 10

// ListCredentials returns the stored credentials with redacted values.
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.credentialSvc.List(r.Context())
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		writeError(w, http.StatusServiceUnavailable, driven.ErrEncryptionKeyNotSet.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to list credentials", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CredentialResponse, 0, len(creds))
	for _, c := range creds {
		resp = append(resp, toCredentialResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetStitchCredentials stores a new Stitch access token and activates it.
func (h *Handler) SetStitchCredentials(w http.ResponseWriter, r *http.Request) {
	var req SetCredentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCredentialBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "access_token is required")
		return
	}

	err := h.credentialSvc.SetStitchToken(r.Context(), model.NewSecret(req.AccessToken))
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		writeError(w, http.StatusServiceUnavailable, driven.ErrEncryptionKeyNotSet.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to store stitch credentials", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteStitchCredentials removes the stored Stitch access token.
func (h *Handler) DeleteStitchCredentials(w http.ResponseWriter, r *http.Request) {
	if err := h.credentialSvc.ClearStitchToken(r.Context()); err != nil {
		h.logger.Error("failed to delete stitch credentials", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
