package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNotConfigured indicates the gateway API key is absent. The check runs
	// before any network I/O; callers degrade to the simulated path instead of
	// retrying.
	ErrNotConfigured = errors.New("momo gateway api key not configured")

	// ErrUnreachable wraps transport-level failures reaching the provider.
	ErrUnreachable = errors.New("momo gateway unreachable")

	// ErrMissingReference indicates the initiation response carried no
	// reference id, leaving the payment impossible to poll.
	ErrMissingReference = errors.New("momo initiation response missing reference id")
)

// GatewayError reports a non-2xx provider response with the raw body preserved.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("momo gateway returned %d: %s", e.StatusCode, e.Body)
}

// InitiateRequest carries the fields of the provider's pay call.
type InitiateRequest struct {
	MSISDN       string
	Amount       string
	Reference    string
	PayerMessage string
	PayeeNote    string
}

// Handle identifies an initiated payment for status polling. ReferenceID is
// the provider-assigned id; ExternalReference is the caller-supplied one.
type Handle struct {
	ReferenceID       string
	ExternalReference string
	Payload           any
}

// Client is a stateless HTTP wrapper around the mobile-money proxy API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a gateway client. An empty apiKey produces a client whose
// calls fail with ErrNotConfigured.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the client can reach a real provider.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Initiate submits a payment request and returns a pollable handle. A
// response without a recognizable reference id returns the decoded payload
// together with ErrMissingReference so the caller never assumes success.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (Handle, error) {
	if !c.Configured() {
		return Handle{}, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"msisdn":       req.MSISDN,
		"amount":       json.Number(req.Amount),
		"reference":    req.Reference,
		"payerMessage": req.PayerMessage,
		"payeeNote":    req.PayeeNote,
	})
	if err != nil {
		return Handle{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/momo/pay", bytes.NewReader(body))
	if err != nil {
		return Handle{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	payload, err := c.do(httpReq)
	if err != nil {
		return Handle{}, err
	}

	refID := extractReference(payload)
	if refID == "" {
		return Handle{Payload: payload, ExternalReference: req.Reference}, ErrMissingReference
	}
	return Handle{ReferenceID: refID, ExternalReference: req.Reference, Payload: payload}, nil
}

// QueryStatus fetches the current provider status for a handle. Read-only
// against the provider.
func (c *Client) QueryStatus(ctx context.Context, h Handle) (any, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if h.ReferenceID == "" && h.ExternalReference == "" {
		return nil, fmt.Errorf("reference id or external reference required to query payment status")
	}

	query := url.Values{}
	if h.ReferenceID != "" {
		query.Set("referenceId", h.ReferenceID)
	} else {
		query.Set("externalReference", h.ExternalReference)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/momo/payments?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return decodePayload(raw), nil
}

// decodePayload parses the response body, preserving unparseable text as
// {raw: text} rather than dropping it.
func decodePayload(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return payload
}

// extractReference resolves the reference id across the provider's response
// shapes, mirroring the status resolution strategy.
func extractReference(payload any) string {
	switch v := payload.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"referenceId", "reference_id", "reference"} {
			if s, ok := stringField(v, key); ok {
				return s
			}
		}
		for _, key := range []string{"data", "payment", "result"} {
			if nested, ok := v[key].(map[string]any); ok {
				if s, ok := stringField(nested, "referenceId"); ok {
					return s
				}
			}
		}
	}
	return ""
}
