package insider

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	VERSION = "0.1.0"

	// SEC allows at most 10 requests per second from one client.
	fetchRateLimit = rate.Limit(10)

	// SecEmailEnvVar is the environment variable name for the SEC contact email.
	SecEmailEnvVar = "SEC_EMAIL"

	// maxAttempts bounds retries per URL; backoff grows by backoffStep each attempt.
	maxAttempts    = 3
	backoffStep    = 5 * time.Second
	requestTimeout = 15 * time.Second
)

// GetSecEmail retrieves the contact email from the environment or returns an error.
// The SEC requires a real contact address in the User-Agent of automated clients.
func GetSecEmail() (string, error) {
	email := os.Getenv(SecEmailEnvVar)
	if email == "" {
		return "", fmt.Errorf("SEC email required: set %s environment variable", SecEmailEnvVar)
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return "", fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return email, nil
}

// BuildUserAgent creates a SEC-compliant User-Agent string.
func BuildUserAgent(email string) string {
	return fmt.Sprintf("go-insider/%s (%s)", VERSION, email)
}

// sleepFunc waits for d or until ctx is done. Injected so tests can observe
// the backoff schedule without actually sleeping.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client issues registry requests with the mandatory identification header,
// bounded retries, and optional per-attempt proxy rotation. Fetch is total:
// exhausted retries are recorded in the ledger and reported as an absent
// result, never as an error.
type Client struct {
	userAgent  string
	proxies    []*url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	sleep      sleepFunc
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithProxies installs a pool of egress proxies. One is chosen uniformly at
// random per attempt, so a retry may route differently than the attempt it
// follows. Unparseable entries are skipped.
func WithProxies(proxyURLs []string) ClientOption {
	return func(c *Client) {
		for _, raw := range proxyURLs {
			u, err := url.Parse(raw)
			if err != nil {
				c.logger.Warn("skipping unparseable proxy URL", zap.Error(err))
				continue
			}
			c.proxies = append(c.proxies, u)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (mainly for tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// withSleep replaces the backoff sleeper (tests only).
func withSleep(s sleepFunc) ClientOption {
	return func(c *Client) { c.sleep = s }
}

// NewClient builds a Client. userAgent is sent on every request; the SEC
// blocks clients that omit it.
func NewClient(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(fetchRateLimit, 1),
		logger:     zap.NewNop(),
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads a URL with up to maxAttempts attempts, waiting
// attempt*backoffStep after each failure. On exhaustion it appends
// "<url> - All retries failed." under category and returns (nil, false).
func (c *Client) Fetch(ctx context.Context, rawURL, category string, ledger *ErrorLedger) ([]byte, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			break
		}

		body, err := c.attempt(ctx, rawURL)
		if err == nil {
			return body, true
		}

		wait := time.Duration(attempt) * backoffStep
		c.logger.Warn("request failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err))
		if err := c.sleep(ctx, wait); err != nil {
			break
		}
	}

	ledger.Append(category, fmt.Sprintf("%s - All retries failed.", rawURL))
	return nil, false
}

func (c *Client) attempt(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// client returns the HTTP client for one attempt. When a proxy pool is
// configured, each attempt gets a client pinned to a randomly chosen proxy.
func (c *Client) client() *http.Client {
	if len(c.proxies) == 0 {
		return c.httpClient
	}
	proxy := c.proxies[rand.Intn(len(c.proxies))]
	return &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: &http.Transport{Proxy: http.ProxyURL(proxy)},
	}
}
