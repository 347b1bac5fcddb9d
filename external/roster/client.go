package roster

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/riskibarqy/cricket-auction/internal/platform/resilience"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout      = 5 * time.Second
	maxResponseBytes    = 4 << 20
	defaultRetryBackoff = 200 * time.Millisecond
)

var errRosterTransient = crerr.New("roster transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
	Clock          clockwork.Clock
	// Dial overrides the transport dialer, e.g. with an in-memory listener.
	Dial fasthttp.DialFunc
}

// Client reads teams, players and seasons from the roster directory service.
// Reads are retried on transport errors, 429 and 5xx.
type Client struct {
	http         *fasthttp.Client
	baseURL      string
	token        string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	clock        clockwork.Clock
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	httpClient := &fasthttp.Client{
		Name:                "cricket-auction-roster",
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: 30 * time.Second,
		MaxResponseBodySize: maxResponseBytes,
	}
	if cfg.Dial != nil {
		httpClient.Dial = cfg.Dial
	}

	return &Client{
		http:         httpClient,
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:        strings.TrimSpace(cfg.Token),
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		clock:        clock,
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker, clock, logTransition(logger, "roster")),
	}
}

func logTransition(logger *logging.Logger, dependency string) resilience.TransitionFunc {
	return func(from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "dependency", dependency, "from", from, "to", to)
	}
}

type request struct {
	method string
	path   string
	query  map[string]string
	body   []byte
}

func (r request) flightKey() string {
	keys := make([]string, 0, len(r.query))
	for k := range r.query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.method)
	b.WriteByte(' ')
	b.WriteString(r.path)
	for _, k := range keys {
		b.WriteByte('&')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.query[k])
	}
	if len(r.body) > 0 {
		b.WriteByte('#')
		b.Write(r.body)
	}
	return b.String()
}

// doJSON runs req with read retries and decodes a 2xx body into target. It
// reports found=false for 404 responses.
func (c *Client) doJSON(ctx context.Context, req request, target any) (bool, error) {
	if c.baseURL == "" {
		return false, crerr.New("roster base url is not configured")
	}
	out, err, _ := c.flight.Do(req.flightKey(), func() (any, error) {
		var res response
		err := c.breaker.Execute(func() error {
			var reqErr error
			res, reqErr = c.execute(ctx, req)
			return reqErr
		}, isCircuitFailure)
		return res, err
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "roster circuit breaker rejected request", "path", req.path)
			return false, fmt.Errorf("%w: roster directory is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if stderrors.Is(err, errRosterTransient) {
			return false, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return false, err
	}

	res, ok := out.(response)
	if !ok {
		return false, crerr.Newf("unexpected roster response type %T", out)
	}
	if res.status == fasthttp.StatusNotFound {
		return false, nil
	}
	if err := sonic.Unmarshal(res.body, target); err != nil {
		return false, crerr.Wrap(err, "decode roster payload")
	}
	return true, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) execute(ctx context.Context, in request) (response, error) {
	fullURL := c.buildURL(in.path, in.query)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return response{}, err
		}

		res, err := c.send(ctx, in, fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %v", errRosterTransient, err)
		case res.status == fasthttp.StatusNotFound || (res.status >= 200 && res.status < 300):
			return res, nil
		case isRetryableStatus(res.status):
			lastErr = fmt.Errorf("%w: roster status=%d body=%s", errRosterTransient, res.status, abbreviate(res.body))
		default:
			return response{}, crerr.Newf("roster status=%d body=%s", res.status, abbreviate(res.body))
		}

		if attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return response{}, ctx.Err()
		case <-c.clock.After(time.Duration(attempt+1) * c.retryBackoff):
		}
	}

	c.logger.WarnContext(ctx, "roster request failed", "path", in.path, "attempts", c.maxRetries+1, "error", lastErr)
	return response{}, lastErr
}

func (c *Client) send(ctx context.Context, in request, fullURL string) (response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(in.method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if len(in.body) > 0 {
		req.Header.SetContentType("application/json")
		req.SetBody(in.body)
	}

	timeout := c.timeout
	if ctxDeadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(ctxDeadline))
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return response{}, err
	}

	return response{
		status: resp.StatusCode(),
		body:   append([]byte(nil), resp.Body()...),
	}, nil
}

func (c *Client) buildURL(path string, query map[string]string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	if len(query) > 0 {
		args := fasthttp.AcquireArgs()
		defer fasthttp.ReleaseArgs(args)
		keys := make([]string, 0, len(query))
		for k := range query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			args.Add(k, query[k])
		}
		_ = buf.WriteByte('?')
		_, _ = buf.Write(args.QueryString())
	}
	return buf.String()
}

// lookupBody encodes {"ids":[...]} for the batch lookup endpoints.
func lookupBody(ids []int64) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(`{"ids":[`)
	for i, id := range ids {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.WriteString(strconv.FormatInt(id, 10))
	}
	_, _ = buf.WriteString(`]}`)
	return append([]byte(nil), buf.B...)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, errRosterTransient) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr)
}

func abbreviate(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
