package reservationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/reservekit/pkg/logger"
	"github.com/dmitrymomot/reservekit/pkg/requestid"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	maxErrorBody = 64 << 10
)

type Config struct {
	BaseURL string        `env:"RESERVATION_API_URL" envDefault:"http://localhost:8080/api"`
	Token   string        `env:"RESERVATION_API_TOKEN"`
	Timeout time.Duration `env:"RESERVATION_API_TIMEOUT" envDefault:"15s"`
}

// Client talks to the reservation backend. Requests are never retried.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, e.g. with httptest's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrEmptyBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("reservationapi"))
	return c, nil
}

// WithToken returns a copy of the client authenticated as another user.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) CreateReservation(ctx context.Context, req CreateReservationRequest) (*Reservation, error) {
	var headers http.Header
	if req.IdempotencyKey != "" {
		headers = http.Header{HeaderIdempotencyKey: []string{req.IdempotencyKey}}
	}

	var out Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations", headers, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReservations(ctx context.Context) ([]Reservation, error) {
	return list[Reservation](ctx, c, "/reservations")
}

func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	return list[Notification](ctx, c, "/notifications")
}

func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPayments(ctx context.Context) ([]Payment, error) {
	return list[Payment](ctx, c, "/payments")
}

func (c *Client) ListReceipts(ctx context.Context) ([]Receipt, error) {
	return list[Receipt](ctx, c, "/receipts")
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out ListResponse[T]
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []T{}, nil
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Join(ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "reservation api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}
