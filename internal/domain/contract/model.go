package contract

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrContractAlreadyExists = errors.New("contract already exists for player and season")
	ErrContractNotActive     = errors.New("contract is not active")
	ErrConflictingLeadership = errors.New("contract cannot be both captain and vice-captain")
)

type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusTerminated Status = "terminated"
)

func ParseStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusActive, StatusCompleted, StatusTerminated:
		return Status(v), nil
	default:
		return "", fmt.Errorf("unknown contract status %q", v)
	}
}

type Category string

const (
	CategoryStandard Category = "standard"
	CategoryMarquee  Category = "marquee"
	CategoryCapped   Category = "capped"
	CategoryUncapped Category = "uncapped"
	CategoryOverseas Category = "overseas"
)

func ParseCategory(v string) (Category, error) {
	switch Category(v) {
	case "":
		return CategoryStandard, nil
	case CategoryStandard, CategoryMarquee, CategoryCapped, CategoryUncapped, CategoryOverseas:
		return Category(v), nil
	default:
		return "", fmt.Errorf("unknown contract category %q", v)
	}
}

type Type string

const (
	TypeAuction     Type = "auction"
	TypeRetention   Type = "retention"
	TypeDirect      Type = "direct"
	TypeReplacement Type = "replacement"
)

func ParseType(v string, fallback Type) (Type, error) {
	switch Type(v) {
	case "":
		return fallback, nil
	case TypeAuction, TypeRetention, TypeDirect, TypeReplacement:
		return Type(v), nil
	default:
		return "", fmt.Errorf("unknown contract type %q", v)
	}
}

// Contract binds a player to a team for one season.
type Contract struct {
	ID            string
	PlayerID      int64
	TeamID        int64
	Season        int
	Value         decimal.Decimal
	BasePrice     decimal.Decimal
	Category      Category
	Type          Type
	StartDate     *time.Time
	EndDate       *time.Time
	Status        Status
	IsCaptain     bool
	IsViceCaptain bool
	IsRetained    bool
	ReleasedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c Contract) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contract id is required")
	}
	if c.PlayerID <= 0 || c.TeamID <= 0 {
		return fmt.Errorf("contract player and team are required")
	}
	if c.Season <= 0 {
		return fmt.Errorf("contract season is required")
	}
	if c.Value.IsNegative() {
		return fmt.Errorf("contract value must be >= 0")
	}
	if c.IsCaptain && c.IsViceCaptain {
		return ErrConflictingLeadership
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("contract end date is before start date")
	}

	return nil
}

// Release terminates an active contract; rows are never deleted.
func (c Contract) Release(releasedAt, now time.Time) (Contract, error) {
	if c.Status != StatusActive {
		return Contract{}, fmt.Errorf("%w: contract=%s status=%s", ErrContractNotActive, c.ID, c.Status)
	}
	c.Status = StatusTerminated
	c.ReleasedAt = &releasedAt
	c.UpdatedAt = now
	return c, nil
}

// PlayerSeasonKey guards contract uniqueness for (player, season).
func PlayerSeasonKey(playerID int64, season int) string {
	return fmt.Sprintf("contract:player:%d:%d", playerID, season)
}

// TeamSeasonKey guards captaincy and salary cap changes for (team, season).
func TeamSeasonKey(teamID int64, season int) string {
	return fmt.Sprintf("contract:team:%d:%d", teamID, season)
}

type Filter struct {
	Season   int
	TeamID   int64
	PlayerID int64
	Status   Status
	Category Category
}

func (f Filter) Match(c Contract) bool {
	if f.Season > 0 && c.Season != f.Season {
		return false
	}
	if f.TeamID > 0 && c.TeamID != f.TeamID {
		return false
	}
	if f.PlayerID > 0 && c.PlayerID != f.PlayerID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	return true
}
