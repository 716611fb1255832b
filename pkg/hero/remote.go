package hero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/httputil"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/observability"
)

// Remote defaults.
const (
	DefaultRemoteTimeout  = 300 * time.Second
	DefaultRemoteRate     = 2.0
	DefaultRemoteBurst    = 2
	DefaultRemoteAttempts = 3

	maxResponseBytes = 1 << 20
)

// RemoteConfig configures a [Remote] locator.
type RemoteConfig struct {
	// URL receives POST requests of the form
	// {"image": "<png data url>", "seed": [x1,y1,x2,y2]} and answers
	// {"bbox": [x1,y1,x2,y2]} or {"bbox": null}.
	URL string

	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Attempts      int
	RetryDelay    time.Duration

	// Client overrides the HTTP client.
	Client *http.Client
}

// Remote locates heroes by calling a detection service over HTTP. Requests
// are paced by a token bucket shared by all callers and retried with
// exponential backoff on transient failures.
type Remote struct {
	url        string
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	client     *http.Client
	limiter    *rate.Limiter
}

// NewRemote validates cfg and creates a remote locator.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if err := lerrors.ValidateURL(cfg.URL); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRemoteRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRemoteBurst
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultRemoteAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &Remote{
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		client:     cfg.Client,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}, nil
}

// LocateRequest is the detection service request body.
type LocateRequest struct {
	Image string `json:"image"`
	Seed  *BBox  `json:"seed,omitempty"`
}

// LocateResponse is the detection service response body.
type LocateResponse struct {
	BBox *BBox `json:"bbox"`
}

// Locate implements [Locator].
func (r *Remote) Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error) {
	url, err := lio.DataURL(img)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInternal, err, "encode image for detector")
	}
	body, err := json.Marshal(LocateRequest{Image: url, Seed: seed})
	if err != nil {
		return nil, err
	}

	var out LocateResponse
	err = httputil.Retry(ctx, r.attempts, r.retryDelay, func() error {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		return r.post(ctx, body, &out)
	})
	if err != nil {
		return nil, err
	}
	if !out.BBox.Usable() {
		return nil, ErrNoHero
	}
	return out.BBox, nil
}

func (r *Remote) post(ctx context.Context, body []byte, out *LocateResponse) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "build detector request")
	}
	req.Header.Set("Content-Type", "application/json")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := r.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return &httputil.RetryableError{Err: lerrors.Wrap(lerrors.ErrCodeTimeout, err, "detector timed out after %s", r.timeout)}
		}
		return &httputil.RetryableError{Err: lerrors.Wrap(lerrors.ErrCodeNetwork, err, "call detector")}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{Err: &lerrors.RateLimitedError{RetryAfter: retryAfter, Message: "detector rate limited"}}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: lerrors.New(lerrors.ErrCodeUpstream, "detector returned %d: %s", resp.StatusCode, snippet(resp.Body))}
	case resp.StatusCode >= 400:
		return lerrors.New(lerrors.ErrCodeUpstream, "detector returned %d: %s", resp.StatusCode, snippet(resp.Body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return lerrors.Wrap(lerrors.ErrCodeUpstream, err, "decode detector response")
	}
	return nil
}

func snippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return fmt.Sprintf("%q", bytes.TrimSpace(b))
}
