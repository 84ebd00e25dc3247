// Package exchangerate fetches point-in-time currency conversion rates from
// the open.er-api.com service. It implements investstat.RateSource; the
// caching half lives in investstat.Rates, which fetches each pair once per
// run.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://open.er-api.com/v6/latest"

type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option          { return func(c *Client) { c.baseURL = u } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }
func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRate returns how many units of the target currency one unit of the
// source currency buys, from the latest published rate table of the source.
func (c *Client) FetchRate(ctx context.Context, from, to string) (float64, error) {
	addr := fmt.Sprintf("%s/%s", c.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("cannot fetch %s/%s rate: %w", from, to, err)
	}
	defer resp.Body.Close()
	c.log.Debug().Str("from", from).Str("to", to).Int("status", resp.StatusCode).Msg("rate fetch")
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("cannot fetch %s/%s rate: %s", from, to, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return 0, fmt.Errorf("cannot decode %s rate table: %w", from, err)
	}

	path := fmt.Sprintf("$.rates.%s", to)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("no %s rate in the %s table: %w", to, from, err)
	}
	rate, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected %s rate in the %s table: %v", to, from, jval)
	}
	return rate, nil
}
