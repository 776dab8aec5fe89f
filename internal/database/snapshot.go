package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vetclinic/m/domain"
)

// ErrSnapshotNotFound is returned by Body for unknown ids.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository stores backup copies of the exported document.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

type snapshotRow struct {
	ID        string `db:"id"`
	CreatedAt string `db:"created_at"`
	Size      int64  `db:"size"`
}

func (row snapshotRow) snapshot() (domain.BackupSnapshot, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return domain.BackupSnapshot{}, fmt.Errorf("snapshot %s: %w", row.ID, err)
	}
	return domain.BackupSnapshot{ID: row.ID, CreatedAt: created, Size: row.Size}, nil
}

// Create stores body under snap.ID.
func (r *SnapshotRepository) Create(ctx context.Context, snap domain.BackupSnapshot, body []byte) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO backup_snapshots (id, created_at, size, body) VALUES (?, ?, ?, ?)`),
		snap.ID, formatTime(snap.CreatedAt), int64(len(body)), string(body))
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

// List returns snapshots newest first.
func (r *SnapshotRepository) List(ctx context.Context) ([]domain.BackupSnapshot, error) {
	var rows []snapshotRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, created_at, size FROM backup_snapshots ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out := make([]domain.BackupSnapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := row.snapshot()
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Latest returns the newest snapshot, or nil when there is none.
func (r *SnapshotRepository) Latest(ctx context.Context) (*domain.BackupSnapshot, error) {
	var row snapshotRow
	err := r.db.GetContext(ctx, &row, `SELECT id, created_at, size FROM backup_snapshots ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	snap, err := row.snapshot()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Body returns the stored document of one snapshot.
func (r *SnapshotRepository) Body(ctx context.Context, id string) ([]byte, error) {
	var body string
	err := r.db.GetContext(ctx, &body, r.db.Rebind(`SELECT body FROM backup_snapshots WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return []byte(body), nil
}

// Prune deletes all but the keep newest snapshots.
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM backup_snapshots WHERE id NOT IN (
            SELECT id FROM backup_snapshots ORDER BY created_at DESC LIMIT ?)`), keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
