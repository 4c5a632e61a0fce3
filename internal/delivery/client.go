package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const ingestPath = "/api/metrics/ingest"

// Outcome is the terminal result of one delivery sequence. There is no
// queueing: an exhausted sample is dropped.
type Outcome string

const (
	Delivered Outcome = "delivered"
	Exhausted Outcome = "exhausted"
)

type Options struct {
	BaseURL    string
	Token      string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Client posts envelopes to the ingest endpoint with bounded retries and a
// fixed inter-attempt delay. The delay is deliberately not exponential: the
// whole sequence must fit inside one sampling interval.
type Client struct {
	baseURL    string
	token      string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration

	sleep func(ctx context.Context, d time.Duration) bool
}

func New(opts Options) *Client {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		token:      opts.Token,
		client:     &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		sleep: func(ctx context.Context, d time.Duration) bool {
			select {
			case <-time.After(d):
				return true
			case <-ctx.Done():
				return false
			}
		},
	}
}

// Send attempts delivery up to the retry limit. HTTP 200 is the only
// success; any other status or transport error is retryable.
func (c *Client) Send(ctx context.Context, env *Envelope) Outcome {
	payload, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Msg("marshal envelope failed")
		return Exhausted
	}

	url := c.baseURL + ingestPath
	correlationID := uuid.New().String()

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err := c.post(ctx, url, correlationID, payload)
		if err == nil {
			log.Info().
				Int("attempt", attempt).
				Str("correlation_id", correlationID).
				Msg("metrics sent")
			return Delivered
		}

		if attempt < c.maxRetries {
			log.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_retries", c.maxRetries).
				Dur("retry_in", c.retryDelay).
				Msg("delivery failed, will retry")
			if !c.sleep(ctx, c.retryDelay) {
				break
			}
		} else {
			log.Error().Err(err).
				Int("attempts", attempt).
				Msg("delivery failed, dropping sample")
		}
	}
	return Exhausted
}

func (c *Client) post(ctx context.Context, url, correlationID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Correlation-ID", correlationID)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %d", resp.StatusCode)
	}
	return nil
}
