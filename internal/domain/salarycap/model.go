package salarycap

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrCapNotConfigured = errors.New("salary cap not configured")
	ErrCapExceeded      = errors.New("salary cap exceeded")
)

// Compliance distinguishes an unconfigured cap from a breached one.
type Compliance string

const (
	ComplianceCompliant    Compliance = "compliant"
	ComplianceNonCompliant Compliance = "non_compliant"
	ComplianceUnknown      Compliance = "unknown"
)

type SalaryCap struct {
	TeamID      int64
	Season      int
	CapAmount   decimal.Decimal
	UsedAmount  decimal.Decimal
	IsCompliant bool
	UpdatedAt   time.Time
}

func (c SalaryCap) Validate() error {
	if c.TeamID <= 0 {
		return fmt.Errorf("salary cap team id must be > 0")
	}
	if c.Season <= 0 {
		return fmt.Errorf("salary cap season must be > 0")
	}
	if !c.CapAmount.IsPositive() {
		return fmt.Errorf("salary cap amount must be > 0")
	}
	return nil
}

// Compute derives used amount and compliance from the active contract total.
func Compute(c SalaryCap, used decimal.Decimal, now time.Time) SalaryCap {
	c.UsedAmount = used
	c.IsCompliant = used.LessThanOrEqual(c.CapAmount)
	c.UpdatedAt = now
	return c
}

func (c SalaryCap) Remaining() decimal.Decimal {
	return c.CapAmount.Sub(c.UsedAmount)
}

func (c SalaryCap) Compliance() Compliance {
	if c.IsCompliant {
		return ComplianceCompliant
	}
	return ComplianceNonCompliant
}
