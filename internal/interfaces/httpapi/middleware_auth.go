package httpapi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-auction/internal/domain/user"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
)

const internalJobTokenHeader = "X-Internal-Job-Token"

// TokenVerifier resolves a bearer token to the calling principal.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing Authorization header", usecase.ErrUnauthorized)
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: invalid Authorization header format", usecase.ErrUnauthorized)
	}
	return token, nil
}

// RequireAuth admits requests carrying a bearer token the verifier accepts
// and stores the principal on the request context.
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := startSpan(r.Context(), "httpapi.RequireAuth")
			defer span.End()

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(ctx, w, err)
				return
			}
			principal, err := verifier.VerifyAccessToken(ctx, token)
			if err != nil {
				writeError(ctx, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(ctx, principal)))
		})
	}
}

// RequireInternalJobToken guards scheduler-triggered routes. An empty
// configured token disables them.
func RequireInternalJobToken(token string) Middleware {
	expected := []byte(strings.TrimSpace(token))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := startSpan(r.Context(), "httpapi.RequireInternalJobToken")
			defer span.End()

			if len(expected) == 0 {
				writeError(ctx, w, fmt.Errorf("%w: internal job token is not configured", usecase.ErrDependencyUnavailable))
				return
			}
			provided := []byte(strings.TrimSpace(r.Header.Get(internalJobTokenHeader)))
			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				writeError(ctx, w, fmt.Errorf("%w: invalid internal job token", usecase.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
