package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/internal/ledger"
)

const documentKey = "clinic"

// DocumentRepository keeps the whole clinic document as one JSON row.
type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Load returns the stored document, or nil when nothing has been saved yet.
func (r *DocumentRepository) Load(ctx context.Context) (*ledger.State, error) {
	var body string
	err := r.db.GetContext(ctx, &body, r.db.Rebind(`SELECT body FROM app_state WHERE key = ?`), documentKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	st, err := ledger.Import([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return st, nil
}

// Save overwrites the stored document.
func (r *DocumentRepository) Save(ctx context.Context, st *ledger.State) error {
	body, err := ledger.Export(st)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO app_state (key, body, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`),
		documentKey, string(body), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so they sort lexically on
// both SQLite and PostgreSQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
