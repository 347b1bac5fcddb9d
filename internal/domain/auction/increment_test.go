package auction

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestIncrement_TierBoundaries(t *testing.T) {
	tests := []struct {
		highest string
		want    string
	}{
		{highest: "0", want: "10"},
		{highest: "20", want: "10"},
		{highest: "99", want: "10"},
		{highest: "99.99", want: "10"},
		{highest: "100", want: "20"},
		{highest: "150", want: "20"},
		{highest: "199", want: "20"},
		{highest: "200", want: "25"},
		{highest: "201", want: "25"},
		{highest: "1575", want: "25"},
	}

	for _, tc := range tests {
		got := Increment(d(tc.highest))
		if !got.Equal(d(tc.want)) {
			t.Fatalf("increment(%s): got=%s want=%s", tc.highest, got, tc.want)
		}
	}
}

func TestMinimumNextBid(t *testing.T) {
	tests := []struct {
		name    string
		highest string
		base    string
		want    string
	}{
		{name: "no bids uses floor", highest: "0", base: "0", want: "20"},
		{name: "base below floor", highest: "0", base: "10", want: "20"},
		{name: "base above floor", highest: "0", base: "50", want: "50"},
		{name: "lowest tier", highest: "20", base: "0", want: "30"},
		{name: "just below second tier", highest: "99", base: "0", want: "109"},
		{name: "second tier start", highest: "100", base: "0", want: "120"},
		{name: "just below top tier", highest: "199", base: "0", want: "219"},
		{name: "top tier start", highest: "200", base: "0", want: "225"},
		{name: "far above", highest: "1000", base: "200", want: "1025"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MinimumNextBid(d(tc.highest), d(tc.base))
			if !got.Equal(d(tc.want)) {
				t.Fatalf("minimum next bid: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestCheckBid_TooLowCarriesMinimum(t *testing.T) {
	err := CheckBid(d("25"), d("20"), decimal.Zero)
	if !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow, got %v", err)
	}

	var tooLow *BidTooLowError
	if !errors.As(err, &tooLow) {
		t.Fatalf("expected BidTooLowError, got %T", err)
	}
	if !tooLow.Minimum.Equal(d("30")) || !tooLow.Highest.Equal(d("20")) {
		t.Fatalf("unexpected error payload: minimum=%s highest=%s", tooLow.Minimum, tooLow.Highest)
	}

	if err := CheckBid(d("30"), d("20"), decimal.Zero); err != nil {
		t.Fatalf("expected bid at minimum to pass, got %v", err)
	}
}

func TestCheckBid_MonotonicAcrossTiers(t *testing.T) {
	highest := decimal.Zero
	accepted := []string{"20", "30", "90", "100", "120", "199", "219", "244", "269"}
	for _, amount := range accepted {
		if err := CheckBid(d(amount), highest, decimal.Zero); err != nil {
			t.Fatalf("bid %s over %s rejected: %v", amount, highest, err)
		}
		highest = d(amount)
	}

	if err := CheckBid(d("293"), highest, decimal.Zero); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("expected 293 over 269 to be rejected, got %v", err)
	}
}
