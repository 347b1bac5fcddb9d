package auction

import "github.com/shopspring/decimal"

// FloorBid is the lowest legal opening bid, in lakhs.
var FloorBid = decimal.NewFromInt(20)

type incrementTier struct {
	from decimal.Decimal
	step decimal.Decimal
}

// Ordered from the highest bracket down.
var incrementTiers = []incrementTier{
	{from: decimal.NewFromInt(200), step: decimal.NewFromInt(25)},
	{from: decimal.NewFromInt(100), step: decimal.NewFromInt(20)},
	{from: decimal.Zero, step: decimal.NewFromInt(10)},
}

// Increment returns the required delta over the current highest bid.
func Increment(highest decimal.Decimal) decimal.Decimal {
	for _, tier := range incrementTiers {
		if highest.GreaterThanOrEqual(tier.from) {
			return tier.step
		}
	}
	return incrementTiers[len(incrementTiers)-1].step
}

// Floor is the opening bid for a player: the registered base price, never below FloorBid.
func Floor(basePrice decimal.Decimal) decimal.Decimal {
	if basePrice.GreaterThan(FloorBid) {
		return basePrice
	}
	return FloorBid
}

// MinimumNextBid maps the current highest bid (zero when none) to the minimum acceptable next bid.
func MinimumNextBid(highest, basePrice decimal.Decimal) decimal.Decimal {
	floor := Floor(basePrice)
	if !highest.IsPositive() {
		return floor
	}

	next := highest.Add(Increment(highest))
	if next.LessThan(floor) {
		return floor
	}
	return next
}
