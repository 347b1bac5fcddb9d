package auction

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	for status := range AllStatuses {
		if status == StatusBidding {
			if CanTransition(StatusBidding, status) {
				t.Fatalf("bidding -> bidding must not be a transition")
			}
			continue
		}
		if !CanTransition(StatusBidding, status) {
			t.Fatalf("expected bidding -> %s to be allowed", status)
		}
		for next := range AllStatuses {
			if CanTransition(status, next) {
				t.Fatalf("terminal %s must not transition to %s", status, next)
			}
		}
	}
}

func TestValidateFinalization(t *testing.T) {
	teamID := int64(7)
	price := func(v string) *decimal.Decimal {
		out := d(v)
		return &out
	}
	bidding := Outcome{Status: StatusBidding, BasePrice: d("20"), Round: 1}

	tests := []struct {
		name    string
		current Outcome
		highest string
		req     Finalization
		wantErr error
	}{
		{
			name:    "sold at highest",
			current: bidding,
			highest: "30",
			req:     Finalization{Status: StatusSold, TeamID: &teamID, Price: price("30")},
		},
		{
			name:    "sold below highest",
			current: bidding,
			highest: "30",
			req:     Finalization{Status: StatusSold, TeamID: &teamID, Price: price("25")},
			wantErr: ErrInvalidFinalization,
		},
		{
			name:    "sold below base price floor",
			current: Outcome{Status: StatusBidding, BasePrice: d("50")},
			highest: "0",
			req:     Finalization{Status: StatusSold, TeamID: &teamID, Price: price("40")},
			wantErr: ErrInvalidFinalization,
		},
		{
			name:    "sold without team",
			current: bidding,
			highest: "30",
			req:     Finalization{Status: StatusSold, Price: price("30")},
			wantErr: ErrInvalidFinalization,
		},
		{
			name:    "retained needs price",
			current: bidding,
			req:     Finalization{Status: StatusRetained, TeamID: &teamID},
			wantErr: ErrInvalidFinalization,
		},
		{
			name:    "right to match below highest is allowed",
			current: bidding,
			highest: "120",
			req:     Finalization{Status: StatusRightToMatch, TeamID: &teamID, Price: price("100")},
		},
		{
			name:    "unsold with winning bid",
			current: bidding,
			highest: "30",
			req:     Finalization{Status: StatusUnsold},
			wantErr: ErrInvalidFinalization,
		},
		{
			name:    "unsold with override",
			current: bidding,
			highest: "30",
			req:     Finalization{Status: StatusUnsold, Override: true},
		},
		{
			name:    "terminal outcome",
			current: Outcome{Status: StatusSold},
			req:     Finalization{Status: StatusUnsold},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			highest := decimal.Zero
			if tc.highest != "" {
				highest = d(tc.highest)
			}
			err := ValidateFinalization(tc.current, highest, tc.req)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOutcome_Reopen(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	teamID := int64(3)
	price := d("40")
	rtm := Outcome{Status: StatusRightToMatch, TeamID: &teamID, FinalPrice: &price, Round: 1}

	reopened, err := rtm.Reopen(now)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != StatusBidding || reopened.Round != 2 || reopened.TeamID != nil || reopened.FinalPrice != nil {
		t.Fatalf("unexpected reopened outcome: %+v", reopened)
	}

	sold := Outcome{Status: StatusSold, Round: 1}
	if _, err := sold.Reopen(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected sold outcome reopen to fail, got %v", err)
	}
}
