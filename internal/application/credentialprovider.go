package application

import (
	"sync"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// CredentialProvider enables runtime hot-swap of the Stitch credentials.
// It holds a mutex-protected copy so that updating the stored token takes
// effect on the next trigger without restarting the application.
type CredentialProvider struct {
	mu    sync.RWMutex
	creds model.StitchCredentials
	set   bool
}

// NewCredentialProvider creates a provider. A zero-value token means no
// credentials are available yet.
func NewCredentialProvider(accessToken model.Secret) *CredentialProvider {
	p := &CredentialProvider{}
	if !accessToken.IsZero() {
		p.creds = model.NewStitchCredentials(accessToken.Reveal())
		p.set = true
	}
	return p
}

// Get returns the current credentials and whether any are configured.
func (p *CredentialProvider) Get() (model.StitchCredentials, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.creds, p.set
}

// Replace swaps in new credentials. The next caller of Get receives them.
func (p *CredentialProvider) Replace(creds model.StitchCredentials) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = creds
	p.set = true
}

// Clear forgets the current credentials.
func (p *CredentialProvider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = model.StitchCredentials{}
	p.set = false
}

// HasCredentials returns true if credentials are currently held.
func (p *CredentialProvider) HasCredentials() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set
}
