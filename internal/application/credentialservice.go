package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// CredentialService keeps the credential store and the in-memory
// CredentialProvider in step.
type CredentialService struct {
	store    driven.CredentialStore
	provider *CredentialProvider
	logger   *slog.Logger
}

// NewCredentialService creates a CredentialService.
func NewCredentialService(store driven.CredentialStore, provider *CredentialProvider, logger *slog.Logger) *CredentialService {
	return &CredentialService{store: store, provider: provider, logger: logger}
}

// ResolveStitchToken picks the access token to start with: a stored token
// takes priority over envToken. A store without an encryption key is not an
// error here; the env token is used instead.
func ResolveStitchToken(ctx context.Context, store driven.CredentialStore, envToken string) (model.Secret, error) {
	stored, err := store.Get(ctx, model.ServiceStitch)
	if err != nil && !errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		return model.Secret{}, err
	}
	if !stored.IsZero() {
		return stored, nil
	}
	return model.NewSecret(envToken), nil
}

// SetStitchToken stores the token and makes it the active credential.
func (s *CredentialService) SetStitchToken(ctx context.Context, token model.Secret) error {
	if err := s.store.Set(ctx, model.ServiceStitch, token); err != nil {
		return err
	}
	s.provider.Replace(model.NewStitchCredentials(token.Reveal()))
	s.logger.Info("stitch credentials updated", "access_token", token)
	return nil
}

// ClearStitchToken removes the stored token and deactivates the credential.
func (s *CredentialService) ClearStitchToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, model.ServiceStitch); err != nil {
		return err
	}
	s.provider.Clear()
	s.logger.Info("stitch credentials cleared")
	return nil
}

// List returns the stored credentials. Values stay wrapped.
func (s *CredentialService) List(ctx context.Context) ([]model.Credential, error) {
	return s.store.List(ctx)
}
