package syncq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
)

// Transmitter delivers one operation to the remote system. A nil error
// means the remote side has accepted it and it may be acknowledged.
type Transmitter interface {
	Send(ctx context.Context, passID string, op domain.SyncOperation) error
}

// HTTPTransmitter POSTs each operation as JSON to Endpoint.
type HTTPTransmitter struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPTransmitter(endpoint string) *HTTPTransmitter {
	return &HTTPTransmitter{Endpoint: endpoint, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (t *HTTPTransmitter) Send(ctx context.Context, passID string, op domain.SyncOperation) error {
	body, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("encode %s: %w", op.ID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", op.ID)
	req.Header.Set("X-Sync-Pass", passID)

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", op.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send %s: remote answered %s", op.ID, resp.Status)
	}
	return nil
}

// LogTransmitter accepts every operation and only logs it. It stands in for
// a remote system when no endpoint is configured.
type LogTransmitter struct {
	Log logrus.FieldLogger
}

func (t LogTransmitter) Send(_ context.Context, passID string, op domain.SyncOperation) error {
	t.Log.WithFields(logrus.Fields{
		"pass":       passID,
		"op":         op.ID,
		"collection": op.Collection,
		"action":     op.Action,
	}).Debug("sync operation accepted")
	return nil
}
