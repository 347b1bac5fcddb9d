package anubis

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/cricket-auction/internal/domain/user"
	"github.com/riskibarqy/cricket-auction/internal/platform/logging"
	"github.com/riskibarqy/cricket-auction/internal/platform/resilience"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/valyala/fasthttp"
)

var errAnubisTransient = crerr.New("anubis transient failure")

type ClientConfig struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheMaxItems  int
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
	Clock          clockwork.Clock
	Dial           fasthttp.DialFunc
}

// Client verifies bearer tokens against the anubis introspection endpoint.
type Client struct {
	http          *fasthttp.Client
	introspectURL string
	adminKey      string
	timeout       time.Duration
	logger        *logging.Logger
	clock         clockwork.Clock
	breaker       *resilience.CircuitBreaker
	cache         *tokenCache
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
		timeout = 3 * time.Second
	}
	maxItems := cfg.CacheMaxItems
	if maxItems <= 0 {
		maxItems = 10000
	}

	httpClient := &fasthttp.Client{
		Name:         "cricket-auction-anubis",
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	if cfg.Dial != nil {
		httpClient.Dial = cfg.Dial
	}

	return &Client{
		http:          httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		timeout:       timeout,
		logger:        logger,
		clock:         clock,
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker, clock, func(from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "dependency", "anubis", "from", from, "to", to)
		}),
		cache: newTokenCache(cfg.CacheTTL, maxItems, clock),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.lookup(cacheKey); ok {
		return principal, nil
	}

	var principal user.Principal
	err := c.breaker.Execute(func() error {
		var introspectErr error
		principal, introspectErr = c.introspect(ctx, token)
		return introspectErr
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request")
			return user.Principal{}, fmt.Errorf("%w: auth service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if stderrors.Is(err, errAnubisTransient) {
			return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return user.Principal{}, err
	}

	c.cache.remember(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	body, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBody(body)

	timeout := c.timeout
	if ctxDeadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(ctxDeadline))
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errAnubisTransient, err)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case status == fasthttp.StatusForbidden:
		// 403 means our admin key was rejected.
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", status)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected admin key", usecase.ErrDependencyUnavailable)
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		return user.Principal{}, fmt.Errorf("%w: anubis status=%d", errAnubisTransient, status)
	case status != fasthttp.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", status)
		return user.Principal{}, crerr.Newf("anubis introspection failed with status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{UserID: decoded.UserID, Email: decoded.Email}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
