package model_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

func TestSecret_RevealReturnsPlaintext(t *testing.T) {
	s := model.NewSecret("foo")
	assert.Equal(t, "foo", s.Reveal())
	assert.False(t, s.IsZero())
}

func TestSecret_EmptyValueAccepted(t *testing.T) {
	s := model.NewSecret("")
	assert.Equal(t, "", s.Reveal())
	assert.True(t, s.IsZero())
}

func TestSecret_FormattingIsRedacted(t *testing.T) {
	s := model.NewSecret("super-secret-token")

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%q"} {
		out := fmt.Sprintf(verb, s)
		assert.NotContains(t, out, "super-secret-token", "verb %s", verb)
	}
	assert.Equal(t, model.RedactedSecret, s.String())
}

func TestSecret_JSONIsRedacted(t *testing.T) {
	payload := struct {
		Token model.Secret `json:"token"`
	}{Token: model.NewSecret("super-secret-token")}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"**********"}`, string(data))
}

func TestSecret_SlogIsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("loaded", "token", model.NewSecret("super-secret-token"))

	assert.NotContains(t, buf.String(), "super-secret-token")
	assert.Contains(t, buf.String(), model.RedactedSecret)
}

func TestStitchCredentials_AccessToken(t *testing.T) {
	creds := model.NewStitchCredentials("foo")
	assert.Equal(t, "foo", creds.AccessToken().Reveal())
}

func TestStitchCredentials_DefaultRenderingsHideToken(t *testing.T) {
	creds := model.NewStitchCredentials("abc-very-secret")

	assert.NotContains(t, fmt.Sprint(creds), "abc-very-secret")
	assert.NotContains(t, fmt.Sprintf("%+v", creds), "abc-very-secret")
	assert.NotContains(t, fmt.Sprintf("%#v", creds), "abc-very-secret")

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("creds", "creds", creds)
	assert.NotContains(t, buf.String(), "abc-very-secret")
}

func TestCredential_StoredValueIsRedactedWhenPrinted(t *testing.T) {
	cred := model.Credential{Service: model.ServiceStitch, Value: model.NewSecret("abc-very-secret")}

	assert.NotContains(t, fmt.Sprintf("%+v", cred), "abc-very-secret")
	assert.Equal(t, "abc-very-secret", cred.Value.Reveal())
}
