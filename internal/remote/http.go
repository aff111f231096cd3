package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/version"
)

// ErrNoBaseURL is returned when the client is built without an API base URL.
var ErrNoBaseURL = errors.ConfigError("remote API base URL is required").Build()

// Endpoint paths relative to the API base URL.
const (
	PathComplexSearch = "/recipes/complexSearch"
	PathRandomJoke    = "/food/jokes/random"
)

// EndpointFor returns the API path serving a dataset kind.
func EndpointFor(kind recipes.Kind) (string, error) {
	switch kind {
	case recipes.PrimaryList, recipes.SearchResults:
		return PathComplexSearch, nil
	case recipes.FoodJoke:
		return PathRandomJoke, nil
	default:
		return "", errors.ValidationError("unsupported dataset kind").
			WithContext("kind", kind.String()).
			Build()
	}
}

// HTTPClient calls the recipe API over net/http and decodes JSON bodies into T.
type HTTPClient[T any] struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// HTTPOption customizes an HTTPClient.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is kept as given.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(o *httpOptions) { o.httpClient = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(o *httpOptions) { o.logger = l }
}

// NewHTTPClient builds a client for the configured API.
func NewHTTPClient[T any](cfg config.APIConfig, opts ...HTTPOption) (*HTTPClient[T], error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid remote API base URL").
			WithContext("base_url", cfg.BaseURL).
			Build()
	}

	o := httpOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		o.httpClient = &http.Client{Timeout: timeout}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &HTTPClient[T]{baseURL: base, httpClient: o.httpClient, logger: o.logger}, nil
}

// Call implements Client. Timeouts are reported as a RawResponse whose message
// contains "timeout"; every other failure to obtain or decode a response is a
// *TransportFault.
func (c *HTTPClient[T]) Call(ctx context.Context, kind recipes.Kind, params map[string]string) (RawResponse[T], error) {
	req, err := c.newRequest(ctx, kind, params)
	if err != nil {
		return RawResponse[T]{}, &TransportFault{Kind: kind, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Debug("Remote call timed out",
				logfields.Kind(kind.String()),
				logfields.DurationMS(float64(time.Since(start).Milliseconds())),
				logfields.Error(err))
			return RawResponse[T]{Message: "timeout: " + err.Error()}, nil
		}
		return RawResponse[T]{}, &TransportFault{Kind: kind, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("Remote call completed",
		logfields.Kind(kind.String()),
		logfields.Status(resp.StatusCode),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	raw := RawResponse[T]{
		StatusCode: resp.StatusCode,
		Message:    statusMessage(resp),
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	if !raw.Success {
		_, _ = io.Copy(io.Discard, resp.Body)
		return raw, nil
	}

	body, err := decodeBody[T](resp.Body)
	if err != nil {
		if isTimeout(err) {
			return RawResponse[T]{StatusCode: resp.StatusCode, Message: "timeout: " + err.Error()}, nil
		}
		return RawResponse[T]{}, &TransportFault{Kind: kind, Err: err}
	}
	raw.Body = body
	return raw, nil
}

func (c *HTTPClient[T]) newRequest(ctx context.Context, kind recipes.Kind, params map[string]string) (*http.Request, error) {
	endpoint, err := EndpointFor(kind)
	if err != nil {
		return nil, err
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	return req, nil
}

// decodeBody returns nil for an empty body.
func decodeBody[T any](r io.Reader) (*T, error) {
	var body T
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return &body, nil
}

// statusMessage returns the reason phrase without the numeric code.
func statusMessage(resp *http.Response) string {
	msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return msg
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
