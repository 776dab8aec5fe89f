package syncq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/domain"
)

type fakeQueue struct {
	mu  sync.Mutex
	ops []domain.SyncOperation
}

func newFakeQueue(ids ...string) *fakeQueue {
	q := &fakeQueue{}
	for _, id := range ids {
		q.ops = append(q.ops, domain.SyncOperation{
			ID: id, Collection: domain.CollectionCustomers, Action: domain.ActionDelete,
			Payload: domain.DeletedRef{Collection: domain.CollectionCustomers, ID: "cus-" + id},
		})
	}
	return q
}

func (q *fakeQueue) PendingSync() []domain.SyncOperation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.SyncOperation(nil), q.ops...)
}

func (q *fakeQueue) AckSync(_ context.Context, ids []string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	kept := q.ops[:0]
	for _, op := range q.ops {
		if op.ID == ids[0] {
			n++
			continue
		}
		kept = append(kept, op)
	}
	q.ops = kept
	return n, nil
}

type recordingTransmitter struct {
	mu     sync.Mutex
	sent   []string
	passes map[string]bool
	failOn string
}

func (t *recordingTransmitter) Send(_ context.Context, passID string, op domain.SyncOperation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if op.ID == t.failOn {
		return errors.New("remote unavailable")
	}
	if t.passes == nil {
		t.passes = map[string]bool{}
	}
	t.passes[passID] = true
	t.sent = append(t.sent, op.ID)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestFlushSendsInOrderAndAcks(t *testing.T) {
	q := newFakeQueue("sync1", "sync2", "sync3")
	tx := &recordingTransmitter{}
	d := NewDrainer(q, tx, time.Hour, quietLogger())

	n, err := d.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"sync1", "sync2", "sync3"}, tx.sent)
	assert.Len(t, tx.passes, 1)
	assert.Empty(t, q.PendingSync())

	st := d.Status()
	assert.Equal(t, StateOnline, st.State)
	assert.False(t, st.LastSync.IsZero())
}

func TestFlushStopsAtFailure(t *testing.T) {
	q := newFakeQueue("sync1", "sync2", "sync3")
	tx := &recordingTransmitter{failOn: "sync2"}
	d := NewDrainer(q, tx, time.Hour, quietLogger())

	n, err := d.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, q.PendingSync(), 2)

	st := d.Status()
	assert.Equal(t, StatePending, st.State)
	assert.Equal(t, 2, st.Pending)
	assert.Contains(t, st.LastError, "remote unavailable")

	tx.failOn = ""
	n, err = d.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, d.Status().LastError)
}

func TestOfflineSkipsFlush(t *testing.T) {
	q := newFakeQueue("sync1")
	d := NewDrainer(q, &recordingTransmitter{}, time.Hour, quietLogger())
	d.SetOnline(false)

	n, err := d.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, StateOffline, d.Status().State)
}

func TestRunDrainsOnNotify(t *testing.T) {
	q := newFakeQueue("sync1", "sync2")
	d := NewDrainer(q, &recordingTransmitter{}, time.Hour, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Notify()
	assert.Eventually(t, func() bool { return len(q.PendingSync()) == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drainer did not stop")
	}
}

func TestHTTPTransmitter(t *testing.T) {
	var got struct {
		ID         string `json:"id"`
		Collection string `json:"collection"`
		Payload    struct {
			ID string `json:"id"`
		} `json:"payload"`
	}
	var (
		mu  sync.Mutex
		key string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		key = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got.ID == "sync-bad" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tx := NewHTTPTransmitter(srv.URL)
	op := newFakeQueue("sync1").ops[0]
	require.NoError(t, tx.Send(context.Background(), "pass-1", op))
	mu.Lock()
	assert.Equal(t, "sync1", key)
	assert.Equal(t, "customers", got.Collection)
	assert.Equal(t, "cus-sync1", got.Payload.ID)
	mu.Unlock()

	op.ID = "sync-bad"
	err := tx.Send(context.Background(), "pass-1", op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
