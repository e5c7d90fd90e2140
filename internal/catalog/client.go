package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meutreino/skill/internal/models"
)

// workoutsResponse is the content API envelope: {"data":[{"id":..,"attributes":{..}}]}.
type workoutsResponse struct {
	Data []workoutRecord `json:"data"`
}

type workoutRecord struct {
	ID         models.Count   `json:"id"`
	Attributes models.Workout `json:"attributes"`
}

// Client reads workouts from the content API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit paces outgoing requests to rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetry sets the number of attempts and the base backoff between them.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

// NewClient creates a catalog client for baseURL authenticated with token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		attempts:   3,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workouts returns the workouts authored by email. A non-empty workoutID
// narrows the result to that workout.
// Retries up to the configured attempts with exponential backoff on
// transport errors and 5xx responses.
func (c *Client) Workouts(ctx context.Context, email, workoutID string) ([]models.Workout, error) {
	params := url.Values{}
	params.Set("filters[authorEmail][$eq]", email)
	if workoutID != "" {
		params.Set("filters[id][$eq]", workoutID)
	}
	u := c.baseURL + "/api/workouts?" + params.Encode()

	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
			case <-time.After(wait):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}

		workouts, retry, err := c.get(ctx, u)
		if err == nil {
			if len(workouts) == 0 {
				return nil, ErrNoWorkouts
			}
			return workouts, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) get(ctx context.Context, u string) (workouts []models.Workout, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, true, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, body)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, body)
	}

	var envelope workoutsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, fmt.Errorf("%w: decoding response: %v", ErrFetch, err)
	}

	workouts = make([]models.Workout, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		w := rec.Attributes
		w.ID = string(rec.ID)
		workouts = append(workouts, w)
	}
	return workouts, false, nil
}
