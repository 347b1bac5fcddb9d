package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"net/url"
	"strings"
)

// isCircuitFailure counts only transport and 5xx failures against the
// breaker; a rejected token is a healthy answer.
func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errAnubisTransient)
}

// hashToken keys the principal cache so raw bearer tokens never sit in memory
// longer than one request.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// buildURL joins the introspection path onto the base URL. An absolute path
// wins over the base.
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSpace(baseURL)
	path = strings.TrimSpace(path)
	if path == "" {
		return strings.TrimSuffix(baseURL, "/")
	}
	if parsed, err := url.Parse(path); err == nil && parsed.IsAbs() {
		return path
	}

	joined, err := url.JoinPath(baseURL, path)
	if err != nil {
		return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	return joined
}
