package pr0game

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/pr0game-go/internal/application/common"
	"github.com/andrescamacho/pr0game-go/internal/domain/game"
	"github.com/andrescamacho/pr0game-go/internal/domain/shared"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// Config configures the game frontend client
type Config struct {
	BaseURL           string
	UniPath           string
	Username          string
	SessionCookieName string
	SessionCookie     string

	// ActionTimeout bounds every LiveSystem call including retries
	ActionTimeout time.Duration

	RequestsPerSecond int
	Burst             int
	MaxRetries        int
	BackoffBase       time.Duration
	BreakerFailures   int
	BreakerTimeout    time.Duration
}

// ClientMetrics records request outcomes
type ClientMetrics interface {
	RecordRequest(page, outcome string, duration time.Duration)
	SetCircuitState(state string)
}

// Client drives the game frontend over HTTP and implements common.LiveSystem
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	base        *url.URL
	gamePath    string
	username    string
	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	logger      common.Logger
	metrics     ClientMetrics

	mu      sync.Mutex
	lastURL string
}

// NewClient creates a client with the session cookie preloaded. It logs to
// the logger carried by ctx.
// If clock is nil, uses RealClock for production
func NewClient(ctx context.Context, cfg Config, clock shared.Clock, metrics ClientMetrics) (*Client, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	logger := common.LoggerFromContext(ctx)

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid game base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if cfg.SessionCookie != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: cfg.SessionCookieName, Value: cfg.SessionCookie, Path: "/"}})
	}

	requests, burst := cfg.RequestsPerSecond, cfg.Burst
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 5
	}

	return &Client{
		httpClient:  &http.Client{Jar: jar},
		rateLimiter: rate.NewLimiter(rate.Limit(requests), burst),
		breaker:     NewCircuitBreaker(failures, cfg.BreakerTimeout, clock),
		base:        base,
		gamePath:    cfg.UniPath,
		username:    cfg.Username,
		timeout:     cfg.ActionTimeout,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}, nil
}

// withTimeout bounds one live-system action
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// pageURL returns the address of a game page; PageCurrent is the page fetched last
func (c *Client) pageURL(page game.Page, extra url.Values) string {
	if page == game.PageCurrent {
		c.mu.Lock()
		last := c.lastURL
		c.mu.Unlock()
		if last != "" {
			return last
		}
		page = game.PageOverview
	}
	query := url.Values{"page": {string(page)}}
	for k, v := range extra {
		query[k] = v
	}
	return c.base.ResolveReference(&url.URL{Path: c.gamePath, RawQuery: query.Encode()}).String()
}

func (c *Client) landingURL() string {
	return c.base.ResolveReference(&url.URL{Path: c.gamePath}).String()
}

// fetch GETs a page and parses it
func (c *Client) fetch(ctx context.Context, target string) (*html.Node, error) {
	body, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.lastURL = target
	c.mu.Unlock()

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", target, err)
	}
	return doc, nil
}

func (c *Client) fetchPage(ctx context.Context, page game.Page) (*html.Node, error) {
	return c.fetch(ctx, c.pageURL(page, nil))
}

// do runs a request through the circuit breaker
func (c *Client) do(ctx context.Context, method, target string, form url.Values) ([]byte, error) {
	var body []byte
	err := c.breaker.Call(func() error {
		var err error
		body, err = c.request(ctx, method, target, form)
		return err
	})
	if c.metrics != nil {
		c.metrics.SetCircuitState(c.breaker.GetState().String())
	}
	return body, err
}

// addJitter spreads retries to avoid retrying in lockstep
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP request with rate limiting and exponential backoff retries
func (c *Client) request(ctx context.Context, method, target string, form url.Values) ([]byte, error) {
	pageLabel := pageLabel(target)
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := addJitter(c.backoffBase * time.Duration(1<<(attempt-1)))
			if retryable, ok := lastErr.(*retryableError); ok && retryable.retryAfter > 0 {
				delay = retryable.retryAfter
			}
			c.logger.Log(common.LevelDebug, fmt.Sprintf("Retrying %s after %v: %v", pageLabel, delay, lastErr), nil)
			if err := c.clock.Sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("context cancelled: %w", err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.attempt(ctx, method, target, form, pageLabel)
		if err == nil {
			return body, nil
		}
		if _, ok := err.(*retryableError); !ok {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt performs one HTTP round trip
func (c *Client) attempt(ctx context.Context, method, target string, form url.Values, pageLabel string) ([]byte, error) {
	start := c.clock.Now()
	outcome := "ok"
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordRequest(pageLabel, outcome, c.clock.Now().Sub(start))
		}
	}()

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "network_error"
		return nil, &retryableError{message: fmt.Sprintf("network error: %v", err), err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "network_error"
		return nil, &retryableError{message: fmt.Sprintf("failed to read response: %v", err), err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		outcome = "rate_limited"
		var retryAfter time.Duration
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
		return nil, &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
	case resp.StatusCode >= 500:
		outcome = "server_error"
		return nil, &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	case resp.StatusCode >= 400:
		outcome = "client_error"
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: target}
	}

	// the game redirects to the login page once the session expired
	if resp.Request != nil && resp.Request.URL.Path != c.gamePath {
		outcome = "session_invalid"
		return nil, ErrSessionInvalid
	}
	return body, nil
}

func pageLabel(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "unknown"
	}
	if page := u.Query().Get("page"); page != "" {
		return page
	}
	return "landing"
}
