package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/shopspring/decimal"
)

type ContractRepository struct {
	access access
}

func (r *ContractRepository) Create(_ context.Context, item contract.Contract) error {
	return r.access.write(func(st *ledgerState) error {
		if _, exists := st.contracts[item.ID]; exists {
			return fmt.Errorf("contract id %s already exists", item.ID)
		}
		for _, existing := range st.contracts {
			if existing.PlayerID == item.PlayerID && existing.Season == item.Season {
				return fmt.Errorf("%w: player=%d season=%d", contract.ErrContractAlreadyExists, item.PlayerID, item.Season)
			}
		}
		st.contracts[item.ID] = item
		return nil
	})
}

func (r *ContractRepository) Update(_ context.Context, item contract.Contract) error {
	return r.access.write(func(st *ledgerState) error {
		if _, exists := st.contracts[item.ID]; !exists {
			return fmt.Errorf("contract %s not found", item.ID)
		}
		st.contracts[item.ID] = item
		return nil
	})
}

func (r *ContractRepository) GetByID(_ context.Context, contractID string) (contract.Contract, bool, error) {
	var (
		item   contract.Contract
		exists bool
	)
	r.access.read(func(st *ledgerState) {
		item, exists = st.contracts[contractID]
	})
	return item, exists, nil
}

func (r *ContractRepository) GetByPlayerSeason(_ context.Context, playerID int64, season int) (contract.Contract, bool, error) {
	var (
		item   contract.Contract
		exists bool
	)
	r.access.read(func(st *ledgerState) {
		for _, c := range st.contracts {
			if c.PlayerID == playerID && c.Season == season {
				item, exists = c, true
				return
			}
		}
	})
	return item, exists, nil
}

func (r *ContractRepository) List(_ context.Context, filter contract.Filter) ([]contract.Contract, error) {
	var out []contract.Contract
	r.access.read(func(st *ledgerState) {
		for _, c := range st.contracts {
			if filter.Match(c) {
				out = append(out, c)
			}
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season > out[j].Season
		}
		if !out[i].Value.Equal(out[j].Value) {
			return out[i].Value.GreaterThan(out[j].Value)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ContractRepository) ClearCaptain(_ context.Context, teamID int64, season int, exceptID string) error {
	return r.access.write(func(st *ledgerState) error {
		for id, c := range st.contracts {
			if c.TeamID == teamID && c.Season == season && c.ID != exceptID && c.IsCaptain {
				c.IsCaptain = false
				st.contracts[id] = c
			}
		}
		return nil
	})
}

func (r *ContractRepository) ClearViceCaptain(_ context.Context, teamID int64, season int, exceptID string) error {
	return r.access.write(func(st *ledgerState) error {
		for id, c := range st.contracts {
			if c.TeamID == teamID && c.Season == season && c.ID != exceptID && c.IsViceCaptain {
				c.IsViceCaptain = false
				st.contracts[id] = c
			}
		}
		return nil
	})
}

func (r *ContractRepository) SumActiveValue(_ context.Context, teamID int64, season int) (decimal.Decimal, error) {
	total := decimal.Zero
	r.access.read(func(st *ledgerState) {
		for _, c := range st.contracts {
			if c.TeamID == teamID && c.Season == season && c.Status == contract.StatusActive {
				total = total.Add(c.Value)
			}
		}
	})
	return total, nil
}
