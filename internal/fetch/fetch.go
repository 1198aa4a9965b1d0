// ABOUTME: HTTP client for the NASA APOD API acting as the resolver's content source
// ABOUTME: Classifies failures as NotFound or Transport, with retry, rate limiting, and size limits

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/harper/apod/internal/models"
)

const (
	DefaultBaseURL  = "https://api.nasa.gov/planetary/apod"
	DefaultAPIKey   = "DEMO_KEY"
	UserAgent       = "apod/1.0 (APOD viewer)"
	MaxResponseSize = 1 << 20 // 1MB
)

// Kind tags why a fetch failed.
type Kind int

const (
	// KindTransport covers network, server, and malformed-response failures.
	KindTransport Kind = iota
	// KindNotFound means upstream has no content for the requested date.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	default:
		return "transport"
	}
}

// ErrNotFound matches any *Error of KindNotFound via errors.Is.
var ErrNotFound = errors.New("APOD not available for this date")

// Error is the only error type returned by Client.Fetch.
type Error struct {
	Kind       Kind
	Date       string // empty when the latest entry was requested
	StatusCode int
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	target := e.Date
	if target == "" {
		target = "latest"
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch APOD %s: %s (status %d)", target, msg, e.StatusCode)
	}
	return fmt.Sprintf("fetch APOD %s: %s", target, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) identify not-found failures.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the failure kind of err. Errors that did not come from
// this package are treated as transport failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransport
}

// IsNotFound reports whether err signals missing content for a date.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// apiError is the JSON body the APOD API sends with non-200 responses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Client fetches APOD records. It is safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	userAgent   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	logger      *log.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets how many times a transport failure, 429, or 5xx is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(base time.Duration) Option {
	return func(c *Client) {
		c.backoffBase = base
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates an APOD client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		userAgent: UserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Inf, 1),
		maxRetries:  1,
		backoffBase: time.Second,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the record for date. A zero date asks for the most recent entry.
// Every returned error is an *Error.
func (c *Client) Fetch(ctx context.Context, date time.Time) (*models.Record, error) {
	dateStr := ""
	if !date.IsZero() {
		dateStr = date.Format(models.DateLayout)
	}

	reqURL, err := c.buildURL(dateStr)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, Msg: "invalid base URL", Err: err}
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase * time.Duration(1<<uint(attempt-1))
			c.logger.Debug("retrying APOD fetch", "date", dateStr, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &Error{Kind: KindTransport, Date: dateStr, Msg: "canceled", Err: ctx.Err()}
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, Date: dateStr, Msg: "rate limiter", Err: err}
		}

		rec, fetchErr, retryable := c.do(ctx, reqURL, dateStr)
		if fetchErr == nil {
			return rec, nil
		}
		lastErr = fetchErr
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) buildURL(dateStr string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	if dateStr != "" {
		q.Set("date", dateStr)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do performs a single request and reports whether a failure may be retried.
func (c *Client) do(ctx context.Context, reqURL, dateStr string) (*models.Record, *Error, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, Msg: "failed to create request", Err: err}, false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, Msg: "failed to reach APOD API", Err: redact(err)}, true
	}
	defer resp.Body.Close()

	c.logger.Debug("APOD response", "date", dateStr, "status", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: "failed to read response body", Err: err}, true
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: fmt.Sprintf("response too large (exceeds %d bytes)", MaxResponseSize)}, false
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Date: dateStr, StatusCode: resp.StatusCode, Msg: upstreamMessage(body, ErrNotFound.Error()), Err: ErrNotFound}, false
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: upstreamMessage(body, resp.Status)}, true
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: upstreamMessage(body, resp.Status)}, false
	}

	var rec models.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: "malformed response", Err: err}, false
	}
	if err := rec.Validate(); err != nil {
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: "malformed response", Err: err}, false
	}
	if dateStr != "" && rec.Date != dateStr {
		return nil, &Error{Kind: KindTransport, Date: dateStr, StatusCode: resp.StatusCode, Msg: fmt.Sprintf("upstream returned entry for %s", rec.Date)}, false
	}

	return &rec, nil, false
}

// upstreamMessage extracts msg from an APOD error body, falling back to def.
func upstreamMessage(body []byte, def string) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Msg != "" {
		return ae.Msg
	}
	return def
}

// redact strips the query string, which carries the API key, from URL errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
		}
	}
	return err
}
