package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// STITCHSYNC_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set STITCHSYNC_SECRET_KEY")

// CredentialStore defines the driven port for encrypted credential persistence.
// The adapter layer is responsible for encryption/decryption; values cross the
// domain boundary wrapped in model.Secret.
type CredentialStore interface {
	// Set stores or replaces the credential for the given service.
	// Returns ErrEncryptionKeyNotSet if the adapter was constructed without an encryption key.
	Set(ctx context.Context, service string, value model.Secret) error

	// Get retrieves the credential for the given service.
	// Returns (zero Secret, nil) if no credential exists for that service.
	// Returns ErrEncryptionKeyNotSet if the adapter was constructed without an encryption key.
	Get(ctx context.Context, service string) (model.Secret, error)

	// List returns all stored credentials.
	// Returns ErrEncryptionKeyNotSet if the adapter was constructed without an encryption key.
	List(ctx context.Context) ([]model.Credential, error)

	// Delete removes the credential for the given service.
	Delete(ctx context.Context, service string) error
}
