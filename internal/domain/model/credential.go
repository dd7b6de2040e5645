package model

import (
	"log/slog"
	"time"
)

// RedactedSecret is the textual form of every Secret, whatever its value.
const RedactedSecret = "**********"

// ServiceStitch is the credential store service name for the Stitch access token.
const ServiceStitch = "stitch"

// Secret wraps a sensitive string. Its fmt, JSON, text and slog renderings are
// all the redaction marker; Reveal is the only way to read the plaintext.
type Secret struct {
	value string
}

// NewSecret wraps value. Empty values are accepted.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the plaintext value.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether the secret holds an empty value.
func (s Secret) IsZero() bool {
	return s.value == ""
}

func (s Secret) String() string {
	return RedactedSecret
}

func (s Secret) GoString() string {
	return "model.Secret(" + RedactedSecret + ")"
}

// MarshalText implements encoding.TextMarshaler; JSON encoding goes through it as well.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(RedactedSecret), nil
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(RedactedSecret)
}

// StitchCredentials authenticates calls to the Stitch API. The zero value
// carries an empty token.
type StitchCredentials struct {
	accessToken Secret
}

// NewStitchCredentials builds credentials from a raw access token. No
// validation is applied; a bad token surfaces as an auth error from Stitch.
func NewStitchCredentials(accessToken string) StitchCredentials {
	return StitchCredentials{accessToken: NewSecret(accessToken)}
}

// AccessToken returns the wrapped access token.
func (c StitchCredentials) AccessToken() Secret {
	return c.accessToken
}

func (c StitchCredentials) String() string {
	return "StitchCredentials{access_token: " + RedactedSecret + "}"
}

func (c StitchCredentials) GoString() string {
	return "model.StitchCredentials{accessToken: " + RedactedSecret + "}"
}

// LogValue implements slog.LogValuer.
func (c StitchCredentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("access_token", RedactedSecret))
}

// Credential is a stored service credential. Service identifies the external
// system ("stitch"); Value is decrypted but still wrapped.
type Credential struct {
	ID        int64
	Service   string
	Value     Secret
	UpdatedAt time.Time
}
