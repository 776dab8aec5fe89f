// Package store serializes every mutation of the clinic document behind one
// lock. A mutation runs against a clone of the current state; the clone is
// persisted and swapped in only when the mutation succeeds.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vetclinic/m/internal/ledger"
)

// Repository persists the whole document. Load returns nil, nil when nothing
// has been stored yet.
type Repository interface {
	Load(ctx context.Context) (*ledger.State, error)
	Save(ctx context.Context, st *ledger.State) error
}

// Seeder fills empty sections of a document with default records and
// reports whether it changed anything.
type Seeder func(st *ledger.State) (bool, error)

type Store struct {
	mu      sync.RWMutex
	state   *ledger.State
	repo    Repository
	log     logrus.FieldLogger
	now     func() time.Time
	changes chan struct{}
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// Open loads the stored document, starting a new one when the repository is
// empty. seed runs either way; the document is saved when it is new or seed
// changed it.
func Open(ctx context.Context, repo Repository, seed Seeder, opts ...Option) (*Store, error) {
	s := &Store{
		repo:    repo,
		log:     logrus.StandardLogger(),
		now:     time.Now,
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	fresh := st == nil
	if fresh {
		st = ledger.NewState()
	}
	changed := false
	if seed != nil {
		if changed, err = seed(st); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
	}
	if fresh || changed {
		st.RecomputeRunningBalances()
		if err := repo.Save(ctx, st); err != nil {
			return nil, err
		}
	}
	s.state = st
	s.log.WithFields(logrus.Fields{
		"new":      fresh,
		"seeded":   changed,
		"products": len(st.Products),
	}).Info("clinic document opened")
	return s, nil
}

func (s *Store) ledger(st *ledger.State) *ledger.Ledger {
	return ledger.New(st, ledger.WithClock(s.now), ledger.WithLogger(s.log))
}

// Update applies fn to a clone of the current state. When fn succeeds the
// running balances are recomputed, the clone is saved and becomes current.
// On any error the current state is left untouched.
func (s *Store) Update(ctx context.Context, fn func(*ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(s.ledger(next)); err != nil {
		return err
	}
	next.RecomputeRunningBalances()
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	s.state = next
	s.notify()
	return nil
}

// View runs fn against the current state under a read lock. fn must not
// mutate the ledger.
func (s *Store) View(fn func(*ledger.Ledger)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.ledger(s.state))
}

// Replace swaps in st wholesale, as an import does.
func (s *Store) Replace(ctx context.Context, st *ledger.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.RecomputeRunningBalances()
	if err := s.repo.Save(ctx, st); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	s.state = st
	s.notify()
	return nil
}

// Changes delivers a signal after each committed mutation. Signals coalesce.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
