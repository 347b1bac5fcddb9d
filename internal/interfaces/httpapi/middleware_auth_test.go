package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/cricket-auction/internal/domain/user"
	"github.com/riskibarqy/cricket-auction/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "  bearer   abc  ", want: "abc"},
		{header: "", wantErr: true},
		{header: "Basic abc", wantErr: true},
		{header: "Bearer ", wantErr: true},
		{header: "Bearer", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr {
				require.ErrorIs(t, err, usecase.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type verifierFunc func(ctx context.Context, token string) (user.Principal, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	return f(ctx, token)
}

func TestRequireAuth_PassesPrincipal(t *testing.T) {
	verifier := verifierFunc(func(_ context.Context, token string) (user.Principal, error) {
		assert.Equal(t, "tok-1", token)
		return user.Principal{UserID: "auctioneer-7"}, nil
	})

	var seen user.Principal
	h := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auctions/2025/bid", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "auctioneer-7", seen.UserID)
}

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "match", configured: "s3cret", provided: "s3cret", wantStatus: http.StatusAccepted},
		{name: "mismatch", configured: "s3cret", provided: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", configured: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "not configured", configured: " ", provided: "anything", wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireInternalJobToken(tt.configured)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			}))
			req := httptest.NewRequest(http.MethodPost, "/salary-caps/2025/recompute", nil)
			if tt.provided != "" {
				req.Header.Set(internalJobTokenHeader, tt.provided)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
