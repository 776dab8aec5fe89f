// Package ledger is the transactional core of the clinic: FIFO stock batches,
// invoice application and reversal, party balances, the two-column cash
// account and the read-only report projections.
//
// A Ledger mutates the State it wraps in place and performs no I/O. Callers
// that need all-or-nothing semantics apply operations to a State.Clone and
// keep the clone only on success; RecomputeRunningBalances is left to the
// persistence boundary.
package ledger

import (
	"time"

	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
)

type Ledger struct {
	st  *State
	now func() time.Time
	log logrus.FieldLogger
}

type Option func(*Ledger)

// WithClock overrides the time source used for sync timestamps, reversal
// batches and report "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// New wraps st. A nil st starts from an empty document.
func New(st *State, opts ...Option) *Ledger {
	if st == nil {
		st = NewState()
	}
	l := &Ledger{st: st, now: time.Now, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the wrapped document.
func (l *Ledger) State() *State {
	return l.st
}

func (l *Ledger) logSync(action domain.SyncAction, payload domain.SyncPayload) {
	l.st.SyncQueue = append(l.st.SyncQueue, domain.SyncOperation{
		ID:         l.st.Counters.NextSyncOperationID(),
		Timestamp:  domain.NewDate(l.now().UTC()),
		Collection: payload.SyncCollection(),
		Action:     action,
		Payload:    payload,
	})
}

func (l *Ledger) logDelete(collection domain.Collection, id string) {
	l.logSync(domain.ActionDelete, domain.DeletedRef{Collection: collection, ID: id})
}

// PendingSync returns the queued operations oldest first.
func (l *Ledger) PendingSync() []domain.SyncOperation {
	out := make([]domain.SyncOperation, len(l.st.SyncQueue))
	copy(out, l.st.SyncQueue)
	return out
}

// AckSync drops acknowledged operations from the queue and reports how many were removed.
func (l *Ledger) AckSync(ids []string) int {
	acked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		acked[id] = struct{}{}
	}
	kept := l.st.SyncQueue[:0]
	for _, op := range l.st.SyncQueue {
		if _, ok := acked[op.ID]; !ok {
			kept = append(kept, op)
		}
	}
	removed := len(l.st.SyncQueue) - len(kept)
	l.st.SyncQueue = kept
	return removed
}
