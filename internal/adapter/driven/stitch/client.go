// Package stitch implements the StitchClient port against the Stitch Connect REST API.
package stitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

const (
	// DefaultBaseURL is the Stitch API host used in production.
	DefaultBaseURL = "https://api.stitchdata.com"
	// APIVersion is the path segment prefixed to every endpoint.
	APIVersion = "v4"
)

// Compile-time interface satisfaction check.
var _ driven.StitchClient = (*Client)(nil)

// Client implements the driven.StitchClient port. It holds the credentials
// for its lifetime and keeps no other state, so one Client per call is fine.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials model.StitchCredentials
}

// NewClient creates a client for the production Stitch API. Requests use a
// plain http.Client; timeouts come from the caller's context.
func NewClient(credentials model.StitchCredentials) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     DefaultBaseURL,
		credentials: credentials,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, credentials model.StitchCredentials) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL: %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(u.String(), "/"),
		credentials: credentials,
	}, nil
}

// StartReplicationJob starts a replication job for the given source.
//
// A zero or negative sourceID is treated as missing and rejected with a
// *model.ConfigurationError before any request is made.
func (c *Client) StartReplicationJob(ctx context.Context, sourceID int64) (model.ReplicationResponse, error) {
	if sourceID <= 0 {
		return nil, &model.ConfigurationError{Field: "source_id", Err: model.ErrSourceIDRequired}
	}

	return c.callAPI(ctx, http.MethodPost, c.replicationJobURL(sourceID))
}

func (c *Client) apiURL() string {
	return c.baseURL + "/" + APIVersion
}

func (c *Client) replicationJobURL(sourceID int64) string {
	return fmt.Sprintf("%s/sources/%d/sync", c.apiURL(), sourceID)
}

// callAPI issues a bodiless request and interprets the response. Only 200 and
// 400 carry a body worth decoding; Stitch reports some refusals (e.g. a job
// already running) as a 200 whose body holds an "error" object.
func (c *Client) callAPI(ctx context.Context, method, apiURL string) (model.ReplicationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating Stitch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.credentials.AccessToken().Reveal())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.RemoteCallError{
			Kind:   model.RemoteErrorTransport,
			Reason: err.Error(),
			Err:    err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("stitch: api call", "method", method, "url", apiURL, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, &model.RemoteCallError{
			Kind:       model.RemoteErrorTransport,
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		}
	}

	data, err := decodeBody(resp.Body)
	if err != nil {
		return nil, &model.RemoteCallError{
			Kind:       model.RemoteErrorTransport,
			StatusCode: resp.StatusCode,
			Reason:     "invalid JSON in response body",
			Err:        err,
		}
	}

	if apiErr, ok := data["error"]; ok {
		errType, msg := describeAPIError(apiErr)
		return nil, &model.RemoteCallError{
			Kind:       model.RemoteErrorApplication,
			StatusCode: resp.StatusCode,
			Type:       errType,
			Message:    msg,
		}
	}

	return data, nil
}

// decodeBody decodes exactly one JSON object. A null body, a non-object
// value or trailing data after the object are rejected.
func decodeBody(r io.Reader) (model.ReplicationResponse, error) {
	var data model.ReplicationResponse
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New("response body is not a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return data, nil
}

// reasonPhrase extracts the reason phrase from the status line, falling back
// to the standard text for the code when the server sent none.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// describeAPIError pulls type and message out of the "error" value. Stitch
// documents an object; anything else is stringified as the message.
func describeAPIError(v any) (errType, message string) {
	switch e := v.(type) {
	case map[string]any:
		errType, _ = e["type"].(string)
		switch m := e["message"].(type) {
		case string:
			message = m
		case nil:
		default:
			message = fmt.Sprint(m)
		}
	case string:
		message = e
	case nil:
	default:
		message = fmt.Sprint(e)
	}
	return errType, message
}
