package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/shopspring/decimal"
)

type contractTableModel struct {
	PublicID      string          `db:"public_id"`
	PlayerID      int64           `db:"player_id"`
	TeamID        int64           `db:"team_id"`
	Season        int             `db:"season"`
	ContractValue decimal.Decimal `db:"contract_value"`
	BasePrice     decimal.Decimal `db:"base_price"`
	Category      string          `db:"category"`
	ContractType  string          `db:"contract_type"`
	StartDate     *time.Time      `db:"start_date"`
	EndDate       *time.Time      `db:"end_date"`
	Status        string          `db:"status"`
	IsCaptain     bool            `db:"is_captain"`
	IsViceCaptain bool            `db:"is_vice_captain"`
	IsRetained    bool            `db:"is_retained"`
	ReleasedAt    *time.Time      `db:"released_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func contractToModel(c contract.Contract) contractTableModel {
	return contractTableModel{
		PublicID:      c.ID,
		PlayerID:      c.PlayerID,
		TeamID:        c.TeamID,
		Season:        c.Season,
		ContractValue: c.Value,
		BasePrice:     c.BasePrice,
		Category:      string(c.Category),
		ContractType:  string(c.Type),
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Status:        string(c.Status),
		IsCaptain:     c.IsCaptain,
		IsViceCaptain: c.IsViceCaptain,
		IsRetained:    c.IsRetained,
		ReleasedAt:    c.ReleasedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m contractTableModel) toDomain() contract.Contract {
	return contract.Contract{
		ID:            m.PublicID,
		PlayerID:      m.PlayerID,
		TeamID:        m.TeamID,
		Season:        m.Season,
		Value:         m.ContractValue,
		BasePrice:     m.BasePrice,
		Category:      contract.Category(m.Category),
		Type:          contract.Type(m.ContractType),
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Status:        contract.Status(m.Status),
		IsCaptain:     m.IsCaptain,
		IsViceCaptain: m.IsViceCaptain,
		IsRetained:    m.IsRetained,
		ReleasedAt:    m.ReleasedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
