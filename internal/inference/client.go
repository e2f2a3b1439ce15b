package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Result is the outcome of one inference call. A zero Result is an absence:
// the credential was missing, the transport failed, the status was not 2xx or
// the body was not JSON. Callers fall back to their own default on absence.
type Result struct {
	body json.RawMessage
	ok   bool
}

// Absent returns a Result that carries no value.
func Absent() Result { return Result{} }

// Present wraps a decoded JSON body.
func Present(body json.RawMessage) Result { return Result{body: body, ok: true} }

// OK reports whether the call produced a usable JSON body.
func (r Result) OK() bool { return r.ok }

// Raw returns the JSON body, nil on absence.
func (r Result) Raw() json.RawMessage { return r.body }

// Decode unmarshals the body into v. It returns false on absence or when the
// body does not fit v.
func (r Result) Decode(v any) bool {
	if !r.ok {
		return false
	}
	return json.Unmarshal(r.body, v) == nil
}

// Caller performs a single inference request.
type Caller interface {
	Call(ctx context.Context, endpoint string, payload any) Result
}

// Client posts JSON payloads to hosted inference endpoints with a bearer token.
type Client struct {
	token      string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{token: token, httpClient: http.DefaultClient}
}

// WithHTTPClient replaces the transport, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// HasToken reports whether remote calls are enabled.
func (c *Client) HasToken() bool { return c.token != "" }

// Call posts payload to endpoint. It never returns an error: every failure
// is logged together with the endpoint and collapses into an absent Result.
func (c *Client) Call(ctx context.Context, endpoint string, payload any) Result {
	if c.token == "" {
		log.Printf("⚠️ HF_API_TOKEN is not set, skipping inference call to %s", endpoint)
		return Absent()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ failed to encode payload for %s: %v", endpoint, err)
		return Absent()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ failed to build request for %s: %v", endpoint, err)
		return Absent()
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ API request failed: %v for url: %s", err, endpoint)
		return Absent()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("❌ failed to read response from %s: %v", endpoint, err)
		return Absent()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("❌ API request failed: status %d for url: %s", resp.StatusCode, endpoint)
		return Absent()
	}
	if !json.Valid(data) {
		log.Printf("❌ API response was not valid JSON for url: %s", endpoint)
		return Absent()
	}
	return Present(data)
}
