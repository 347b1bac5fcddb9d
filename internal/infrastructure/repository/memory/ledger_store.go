package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-auction/internal/domain/auction"
	"github.com/riskibarqy/cricket-auction/internal/domain/contract"
	"github.com/riskibarqy/cricket-auction/internal/domain/ledger"
	"github.com/riskibarqy/cricket-auction/internal/domain/salarycap"
)

type outcomeKey struct {
	playerID int64
	year     int
}

type capKey struct {
	teamID int64
	season int
}

type ledgerState struct {
	bids      []auction.Bid
	outcomes  map[outcomeKey]auction.Outcome
	contracts map[string]contract.Contract
	caps      map[capKey]salarycap.SalaryCap
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		outcomes:  make(map[outcomeKey]auction.Outcome),
		contracts: make(map[string]contract.Contract),
		caps:      make(map[capKey]salarycap.SalaryCap),
	}
}

func (s *ledgerState) clone() *ledgerState {
	out := &ledgerState{
		bids:      append([]auction.Bid(nil), s.bids...),
		outcomes:  make(map[outcomeKey]auction.Outcome, len(s.outcomes)),
		contracts: make(map[string]contract.Contract, len(s.contracts)),
		caps:      make(map[capKey]salarycap.SalaryCap, len(s.caps)),
	}
	for k, v := range s.outcomes {
		out.outcomes[k] = v
	}
	for k, v := range s.contracts {
		out.contracts[k] = v
	}
	for k, v := range s.caps {
		out.caps[k] = v
	}
	return out
}

// LedgerStore keeps the auction ledgers in process memory. Transactions run
// one at a time against a copy of the state that replaces the live state on
// success, so a failed unit leaves nothing behind.
type LedgerStore struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *ledgerState
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{state: newLedgerState()}
}

func (s *LedgerStore) Bids() auction.BidRepository {
	return &BidRepository{access: access{store: s}}
}

func (s *LedgerStore) Outcomes() auction.OutcomeRepository {
	return &OutcomeRepository{access: access{store: s}}
}

func (s *LedgerStore) Contracts() contract.Repository {
	return &ContractRepository{access: access{store: s}}
}

func (s *LedgerStore) SalaryCaps() salarycap.Repository {
	return &SalaryCapRepository{access: access{store: s}}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &ledgerTx{store: s, state: working}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()
	return nil
}

type ledgerTx struct {
	store *LedgerStore
	state *ledgerState
}

// Lock is satisfied by the store-wide transaction mutex.
func (t *ledgerTx) Lock(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (t *ledgerTx) Bids() auction.BidRepository {
	return &BidRepository{access: access{store: t.store, tx: t.state}}
}

func (t *ledgerTx) Outcomes() auction.OutcomeRepository {
	return &OutcomeRepository{access: access{store: t.store, tx: t.state}}
}

func (t *ledgerTx) Contracts() contract.Repository {
	return &ContractRepository{access: access{store: t.store, tx: t.state}}
}

func (t *ledgerTx) SalaryCaps() salarycap.Repository {
	return &SalaryCapRepository{access: access{store: t.store, tx: t.state}}
}

// access routes repository calls either to a transaction's working copy or to
// the live state under the store locks.
type access struct {
	store *LedgerStore
	tx    *ledgerState
}

func (a access) read(fn func(st *ledgerState)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.state)
}

func (a access) write(fn func(st *ledgerState) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.txMu.Lock()
	defer a.store.txMu.Unlock()
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.state)
}
