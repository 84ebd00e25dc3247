// Package tinkoff is a minimal client for the Tinkoff Invest OpenAPI REST
// endpoints this tool needs: accounts, portfolio positions and operations.
// It implements investstat.Broker.
package tinkoff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://api-invest.tinkoff.ru/openapi"

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option             { return func(c *Client) { c.baseURL = u } }
func WithHTTPClient(h *http.Client) Option    { return func(c *Client) { c.httpc = h } }
func WithLogger(log zerolog.Logger) Option    { return func(c *Client) { c.log = log } }

func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the common response wrapper of the OpenAPI REST endpoints.
type envelope struct {
	TrackingID string          `json:"trackingId"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload"`
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// get performs an authenticated GET and unmarshals the payload envelope into
// the provided data structure.
func (c *Client) get(ctx context.Context, path string, query url.Values, payload any) error {
	addr := c.baseURL + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("tinkoff GET")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("cannot decode tinkoff response for %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK || env.Status == "Error" {
		var apiErr apiError
		if json.Unmarshal(env.Payload, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("tinkoff %s: %s (%s)", path, apiErr.Message, resp.Status)
		}
		return fmt.Errorf("tinkoff %s: %s", path, resp.Status)
	}
	return json.Unmarshal(env.Payload, payload)
}
