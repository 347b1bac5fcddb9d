package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type salaryCapTableModel struct {
	TeamID      int64           `db:"team_id"`
	Season      int             `db:"season"`
	CapAmount   decimal.Decimal `db:"cap_amount"`
	UsedAmount  decimal.Decimal `db:"used_amount"`
	IsCompliant bool            `db:"is_compliant"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
