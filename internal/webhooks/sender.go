package webhooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-http-utils/headers"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
	"golang.org/x/time/rate"

	"github.com/fleetwire/fleetwire/internal/infra/config"
	"github.com/fleetwire/fleetwire/internal/signing"
)

const (
	UserAgent     = "fleetwire-webhooks/1.0"
	HeaderEvent   = "X-Webhook-Event"
	HeaderAttempt = "X-Webhook-Attempt"
)

// SendError describes a failed delivery: a non-2xx response, a network
// error or a timeout. All of them are retried.
type SendError struct {
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *SendError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("webhooks: send timed out: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("webhooks: endpoint responded with status %d", e.StatusCode)
	default:
		return fmt.Sprintf("webhooks: send failed: %v", e.Err)
	}
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Delivery is one signed request to an endpoint.
type Delivery struct {
	Endpoint  Endpoint
	EventID   string
	EventType string
	Attempt   int
	Body      []byte
	Signature string
}

// Transport sends a signed delivery and returns the response status.
type Transport interface {
	Send(ctx context.Context, d Delivery) (int, error)
}

type SenderOpts struct {
	Client          *http.Client
	Timeout         time.Duration
	SignatureHeader string
	RPS             float64
	Burst           int
}

func SenderOptsFromConfig(cfg config.WebhooksConfig) SenderOpts {
	return SenderOpts{
		Timeout:         cfg.RequestTimeout,
		SignatureHeader: cfg.SignatureHeader,
		RPS:             cfg.RateLimit.RPS,
		Burst:           cfg.RateLimit.Burst,
	}
}

// Sender posts deliveries over HTTP with a per-attempt timeout and an
// optional per-endpoint token bucket.
type Sender struct {
	client  *http.Client
	timeout time.Duration
	header  string
	limit   rate.Limit
	burst   int
	now     func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewSender(opts SenderOpts) *Sender {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	header := opts.SignatureHeader
	if header == "" {
		header = "X-Webhook-Signature"
	}
	return &Sender{
		client:   client,
		timeout:  opts.Timeout,
		header:   header,
		limit:    rate.Limit(opts.RPS),
		burst:    opts.Burst,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (s *Sender) Send(ctx context.Context, d Delivery) (int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.wait(ctx, d.Endpoint.ID); err != nil {
		return 0, classify(err)
	}

	// Secondary signature for receivers using Standard Webhooks libraries.
	wh, err := standardwebhooks.NewWebhookRaw([]byte(d.Endpoint.Secret))
	if err != nil {
		return 0, &signing.Error{KeyID: d.Endpoint.ID, Err: err}
	}
	ts := s.now()
	stdSignature, err := wh.Sign(d.EventID, ts, d.Body)
	if err != nil {
		return 0, &signing.Error{KeyID: d.Endpoint.ID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint.URL, bytes.NewReader(d.Body))
	if err != nil {
		return 0, &SendError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set(headers.ContentType, "application/json")
	req.Header.Set(headers.UserAgent, UserAgent)
	req.Header.Set(s.header, d.Signature)
	req.Header.Set(HeaderEvent, d.EventType)
	req.Header.Set(HeaderAttempt, strconv.Itoa(d.Attempt))
	req.Header.Set("webhook-id", d.EventID)
	req.Header.Set("webhook-timestamp", strconv.FormatInt(ts.Unix(), 10))
	req.Header.Set("webhook-signature", stdSignature)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, classify(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &SendError{StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

func (s *Sender) wait(ctx context.Context, endpointID string) error {
	if s.limit <= 0 {
		return nil
	}

	s.mu.Lock()
	l, ok := s.limiters[endpointID]
	if !ok {
		l = rate.NewLimiter(s.limit, max(s.burst, 1))
		s.limiters[endpointID] = l
	}
	s.mu.Unlock()

	return l.Wait(ctx)
}

func classify(err error) *SendError {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	return &SendError{Timeout: timeout, Err: err}
}
