package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// APIError is a non-2xx answer from the booking API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("booking api: status %d: %s", e.StatusCode, e.Message)
}

func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client talks to the reservation endpoints of the remote booking API. The API owns
// reservations and conflict checks; the gateway only forwards validated requests.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

type Options struct {
	Timeout   time.Duration
	Transport http.RoundTripper
}

func NewClient(rawURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse booking api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("booking api url must be absolute (got %q)", rawURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(opts.Transport),
		},
	}, nil
}

// BaseURL is the API root, shared with the reverse proxies.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// CreateReservationInput is the body the booking API expects.
type CreateReservationInput struct {
	CourtType   string  `json:"courtType"`
	CourtNumber int     `json:"courtNumber"`
	Date        string  `json:"date"`
	TimeSlot    string  `json:"timeSlot"`
	Duration    float64 `json:"duration"`
}

// CreateReservation submits a reservation on behalf of the bearer of token.
func (c *Client) CreateReservation(ctx context.Context, token, idempotencyKey string, in CreateReservationInput) (*model.Reservation, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode reservation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/reservations"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	var out model.Reservation
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking api %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read booking api response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw), Body: raw}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode booking api response: %w", err)
	}
	return nil
}

const maxErrorMessage = 200

// errorMessage pulls "message" or "error" out of a JSON error body, else returns the
// trimmed text.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorMessage {
		cut := maxErrorMessage
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}
