package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	cases := map[string]bool{
		"/healthz":                          false,
		" /HEALTHZ ":                        false,
		"/readyz":                           false,
		"/livez":                            false,
		"/auctions/2025/bid":                true,
		"/contracts/by-season":              true,
		"/salary-caps/2025/recompute":       true,
		"/players/101/auction-history":      true,
		"/auctions/2025/players/101/reopen": true,
	}
	for path, want := range cases {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", path, got, want)
		}
	}
}
