// Package syncq drains the pending sync queue in the background. Foreground
// mutations only ever append to the queue; the drainer sends operations one
// at a time, oldest first, and acknowledges each after the remote side
// accepts it. A failure ends the pass; the next tick retries.
package syncq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
)

// Queue is the store side of the sync queue.
type Queue interface {
	PendingSync() []domain.SyncOperation
	AckSync(ctx context.Context, ids []string) (int, error)
}

type State string

const (
	StateOffline State = "offline"
	StateOnline  State = "online"
	StateSyncing State = "syncing"
	StatePending State = "pending"
)

// Status is a point-in-time view of the drainer.
type Status struct {
	State     State     `json:"status"`
	Pending   int       `json:"pending"`
	LastSync  time.Time `json:"lastSync"`
	LastError string    `json:"lastError,omitempty"`
}

type Drainer struct {
	queue    Queue
	tx       Transmitter
	interval time.Duration
	log      logrus.FieldLogger

	pass    sync.Mutex // held for the duration of a pass
	mu      sync.Mutex // guards the fields below
	online  bool
	syncing bool
	last    time.Time
	lastErr string
	wake    chan struct{}
}

func NewDrainer(queue Queue, tx Transmitter, interval time.Duration, log logrus.FieldLogger) *Drainer {
	return &Drainer{
		queue:    queue,
		tx:       tx,
		interval: interval,
		log:      log,
		online:   true,
		wake:     make(chan struct{}, 1),
	}
}

// Run drains on every tick and whenever Notify or SetOnline(true) is called,
// until ctx is done.
func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	d.log.WithField("interval", d.interval).Info("sync drainer started")

	for {
		select {
		case <-ctx.Done():
			d.log.Info("sync drainer stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}
		if _, err := d.Flush(ctx); err != nil && ctx.Err() == nil {
			d.log.WithError(err).Warn("sync pass failed, will retry")
		}
	}
}

// Notify asks the running drainer for a pass soon. It never blocks.
func (d *Drainer) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// SetOnline toggles connectivity. Going online triggers a pass.
func (d *Drainer) SetOnline(online bool) {
	d.mu.Lock()
	d.online = online
	d.mu.Unlock()
	if online {
		d.Notify()
	}
}

// Flush runs one pass now and reports how many operations were acknowledged.
// It returns immediately when offline or when another pass is in progress.
func (d *Drainer) Flush(ctx context.Context) (int, error) {
	d.mu.Lock()
	online := d.online
	d.mu.Unlock()
	if !online || !d.pass.TryLock() {
		return 0, nil
	}
	defer d.pass.Unlock()

	pending := d.queue.PendingSync()
	if len(pending) == 0 {
		return 0, nil
	}

	passID := uuid.NewString()
	log := d.log.WithFields(logrus.Fields{"pass": passID, "pending": len(pending)})
	log.Debug("sync pass started")
	d.setSyncing(true)
	defer d.setSyncing(false)

	sent := 0
	for _, op := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if !d.isOnline() {
			break
		}
		if err := d.tx.Send(ctx, passID, op); err != nil {
			d.recordError(err)
			return sent, err
		}
		if _, err := d.queue.AckSync(ctx, []string{op.ID}); err != nil {
			d.recordError(err)
			return sent, err
		}
		sent++
	}

	d.mu.Lock()
	d.last = time.Now()
	d.lastErr = ""
	d.mu.Unlock()
	log.WithField("sent", sent).Info("sync pass complete")
	return sent, nil
}

func (d *Drainer) Status() Status {
	pending := len(d.queue.PendingSync())
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Status{Pending: pending, LastSync: d.last, LastError: d.lastErr}
	switch {
	case !d.online:
		s.State = StateOffline
	case d.syncing:
		s.State = StateSyncing
	case pending > 0:
		s.State = StatePending
	default:
		s.State = StateOnline
	}
	return s
}

func (d *Drainer) isOnline() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.online
}

func (d *Drainer) setSyncing(v bool) {
	d.mu.Lock()
	d.syncing = v
	d.mu.Unlock()
}

func (d *Drainer) recordError(err error) {
	d.mu.Lock()
	d.lastErr = err.Error()
	d.mu.Unlock()
}
