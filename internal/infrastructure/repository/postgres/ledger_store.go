package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
)

// LedgerStore runs units of work as database transactions. Lock takes a
// transaction-scoped advisory lock so concurrent units on the same key queue
// behind each other.
type LedgerStore struct {
	db *sqlx.DB
}

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Bids() auction.BidRepository {
	return NewBidRepository(s.db)
}

func (s *LedgerStore) Outcomes() auction.OutcomeRepository {
	return NewOutcomeRepository(s.db)
}

func (s *LedgerStore) Contracts() contract.Repository {
	return NewContractRepository(s.db)
}

func (s *LedgerStore) SalaryCaps() salarycap.Repository {
	return NewSalaryCapRepository(s.db)
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sqlx.Tx
}

func (t *ledgerTx) Lock(ctx context.Context, key string) error {
	if _, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock %s: %w", key, err)
	}
	return nil
}

func (t *ledgerTx) Bids() auction.BidRepository {
	return NewBidRepository(t.tx)
}

func (t *ledgerTx) Outcomes() auction.OutcomeRepository {
	return NewOutcomeRepository(t.tx)
}

func (t *ledgerTx) Contracts() contract.Repository {
	return NewContractRepository(t.tx)
}

func (t *ledgerTx) SalaryCaps() salarycap.Repository {
	return NewSalaryCapRepository(t.tx)
}
