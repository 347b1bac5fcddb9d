package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
	"github.com/shopspring/decimal"
)

// CapPolicy controls how contract writes interact with team salary caps.
type CapPolicy struct {
	// Enforced rejects contract writes that leave the team over its cap.
	Enforced bool
	// DefaultCap is configured on first recompute for teams without a cap.
	DefaultCap decimal.Decimal
}

// SalaryCapStatus is the read model of a team's cap for one season. CapAmount
// and Remaining are nil while no cap is configured.
type SalaryCapStatus struct {
	TeamID     int64
	Season     int
	CapAmount  *decimal.Decimal
	UsedAmount decimal.Decimal
	Remaining  *decimal.Decimal
	Compliance salarycap.Compliance
	UpdatedAt  *time.Time
}

// moneyScale is the number of decimal places the ledgers store.
const moneyScale = 2

// checkMoney rejects amounts finer than the stored scale so a value compared
// in memory is the value persisted and reported back.
func checkMoney(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(moneyScale)) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", ErrInvalidInput, field, moneyScale)
	}
	return nil
}

func capStatus(c salarycap.SalaryCap) SalaryCapStatus {
	capAmount := c.CapAmount
	remaining := c.Remaining()
	updatedAt := c.UpdatedAt
	return SalaryCapStatus{
		TeamID:     c.TeamID,
		Season:     c.Season,
		CapAmount:  &capAmount,
		UsedAmount: c.UsedAmount,
		Remaining:  &remaining,
		Compliance: c.Compliance(),
		UpdatedAt:  &updatedAt,
	}
}

func unknownCapStatus(teamID int64, season int, used decimal.Decimal) SalaryCapStatus {
	return SalaryCapStatus{
		TeamID:     teamID,
		Season:     season,
		UsedAmount: used,
		Compliance: salarycap.ComplianceUnknown,
	}
}

// recomputeCapTx derives used amount and compliance from the contract ledger.
// It returns salarycap.ErrCapNotConfigured when the team has no cap and the
// policy has no default.
func recomputeCapTx(ctx context.Context, tx ledger.Repositories, teamID int64, season int, policy CapPolicy, now time.Time) (salarycap.SalaryCap, error) {
	current, exists, err := tx.SalaryCaps().Get(ctx, teamID, season)
	if err != nil {
		return salarycap.SalaryCap{}, fmt.Errorf("get salary cap: %w", err)
	}
	if !exists {
		if !policy.DefaultCap.IsPositive() {
			return salarycap.SalaryCap{}, fmt.Errorf("%w: team=%d season=%d", salarycap.ErrCapNotConfigured, teamID, season)
		}
		current = salarycap.SalaryCap{TeamID: teamID, Season: season, CapAmount: policy.DefaultCap}
	}

	used, err := tx.Contracts().SumActiveValue(ctx, teamID, season)
	if err != nil {
		return salarycap.SalaryCap{}, fmt.Errorf("sum active contract value: %w", err)
	}

	next := salarycap.Compute(current, used, now)
	if err := tx.SalaryCaps().Upsert(ctx, next); err != nil {
		return salarycap.SalaryCap{}, fmt.Errorf("upsert salary cap: %w", err)
	}
	return next, nil
}

// applyCapAfterWrite recomputes the cap after a contract write. A missing cap
// is not an error; a breached cap is when the policy is enforced.
func applyCapAfterWrite(ctx context.Context, tx ledger.Repositories, teamID int64, season int, policy CapPolicy, now time.Time) (*salarycap.SalaryCap, error) {
	updated, err := recomputeCapTx(ctx, tx, teamID, season, policy, now)
	if errors.Is(err, salarycap.ErrCapNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if policy.Enforced && !updated.IsCompliant {
		return nil, fmt.Errorf("%w: team=%d season=%d used=%s cap=%s",
			salarycap.ErrCapExceeded, teamID, season, updated.UsedAmount.StringFixed(2), updated.CapAmount.StringFixed(2))
	}
	return &updated, nil
}

// createContractTx inserts item, enforcing one contract per (player, season)
// and a single captain and vice-captain per (team, season), then recomputes
// the team's cap.
func createContractTx(ctx context.Context, tx ledger.Tx, item contract.Contract, policy CapPolicy, now time.Time) (*salarycap.SalaryCap, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := tx.Lock(ctx, contract.PlayerSeasonKey(item.PlayerID, item.Season)); err != nil {
		return nil, err
	}
	if err := tx.Lock(ctx, contract.TeamSeasonKey(item.TeamID, item.Season)); err != nil {
		return nil, err
	}

	existing, exists, err := tx.Contracts().GetByPlayerSeason(ctx, item.PlayerID, item.Season)
	if err != nil {
		return nil, fmt.Errorf("get contract by player season: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: player=%d season=%d contract=%s",
			contract.ErrContractAlreadyExists, item.PlayerID, item.Season, existing.ID)
	}

	if err := clearLeadershipTx(ctx, tx, item); err != nil {
		return nil, err
	}
	if err := tx.Contracts().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	return applyCapAfterWrite(ctx, tx, item.TeamID, item.Season, policy, now)
}

func clearLeadershipTx(ctx context.Context, tx ledger.Tx, item contract.Contract) error {
	if item.IsCaptain {
		if err := tx.Contracts().ClearCaptain(ctx, item.TeamID, item.Season, item.ID); err != nil {
			return fmt.Errorf("clear captain: %w", err)
		}
	}
	if item.IsViceCaptain {
		if err := tx.Contracts().ClearViceCaptain(ctx, item.TeamID, item.Season, item.ID); err != nil {
			return fmt.Errorf("clear vice captain: %w", err)
		}
	}
	return nil
}
