package efa

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// Requester performs one request against an EFA endpoint and decodes the
// JSON body into target
type Requester interface {
	Request(ctx context.Context, endpoint string, params Params, target interface{}) error
}

// Client is the HTTP gateway to the EFA service. It makes exactly one attempt
// per call: there are no retries, no caching and no client side timeout.
type Client struct {
	HTTPClient *http.Client
	Logger     zerolog.Logger

	config Config
}

func NewClient(config Config) *Client {
	return &Client{
		HTTPClient: &http.Client{},
		Logger:     log.Logger,

		config: config.clone(),
	}
}

// Config returns a copy of the configuration the client was built with
func (c *Client) Config() Config {
	return c.config.clone()
}

// URL builds the full request URL for endpoint with the default parameters
// merged underneath params
func (c *Client) URL(endpoint string, params Params) string {
	merged := c.config.DefaultParams.Merge(params)

	return c.config.BaseURL + endpoint + merged.Encode()
}

func (c *Client) Request(ctx context.Context, endpoint string, params Params, target interface{}) error {
	requestURL := c.URL(endpoint, params)
	requestID := uuid.NewString()

	requestLogger := c.Logger.With().
		Str("request", requestID).
		Str("endpoint", endpoint).
		Logger()

	requestLogger.Debug().Str("url", requestURL).Msg("EFA request")

	startTime := time.Now()
	err := c.do(ctx, requestURL, target)

	if err != nil {
		apiError := NewInternalError(err)

		requestLogger.Debug().
			Int("status", apiError.Status).
			Str("latency", time.Since(startTime).String()).
			Err(err).
			Msg("EFA request failed")

		return apiError
	}

	requestLogger.Debug().Str("latency", time.Since(startTime).String()).Msg("EFA response")

	return nil
}

func (c *Client) do(ctx context.Context, requestURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, statusText(resp))
	}

	// EFA frequently answers in ISO-8859-1
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return json.NewDecoder(body).Decode(target)
}

// statusText strips the numeric code from resp.Status ("404 Not Found")
func statusText(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}
