package main

import "testing"

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("expected default of 1 step, got %d, %v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("expected 3 steps, got %d, %v", got, err)
	}
	for _, raw := range []string{"0", "-1", "two"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if got, err := parseVersion("1771776100"); err != nil || got != 1771776100 {
		t.Fatalf("unexpected version: %d, %v", got, err)
	}
	if _, err := parseVersion("-4"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseTarget("1771776200"); err != nil || got != 1771776200 {
		t.Fatalf("unexpected target: %d, %v", got, err)
	}
	if _, err := parseTarget("latest"); err == nil {
		t.Fatalf("expected error for non-numeric target")
	}
}
