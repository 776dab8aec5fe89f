// Package backup stores periodic snapshots of the exported clinic document.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
)

// Source produces the document to snapshot.
type Source interface {
	ExportData() ([]byte, error)
}

// Repository stores snapshots.
type Repository interface {
	Create(ctx context.Context, snap domain.BackupSnapshot, body []byte) error
	Latest(ctx context.Context) (*domain.BackupSnapshot, error)
	List(ctx context.Context) ([]domain.BackupSnapshot, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

type Config struct {
	Interval      time.Duration // minimum age of the newest snapshot before another is taken
	CheckInterval time.Duration
	Keep          int
}

type Scheduler struct {
	source Source
	repo   Repository
	cfg    Config
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewScheduler(source Source, repo Repository, cfg Config, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{source: source, repo: repo, cfg: cfg, log: log, now: time.Now}
}

// Run checks once immediately and then every CheckInterval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		if _, err := s.CheckAndBackup(ctx); err != nil && ctx.Err() == nil {
			s.log.WithError(err).Error("automatic backup failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CheckAndBackup takes a snapshot when the newest one is at least Interval
// old, or when there is none. It reports whether a snapshot was taken.
func (s *Scheduler) CheckAndBackup(ctx context.Context) (bool, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		return false, err
	}
	if latest != nil && s.now().Sub(latest.CreatedAt) < s.cfg.Interval {
		return false, nil
	}
	if _, err := s.Backup(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Backup snapshots the document now and prunes old snapshots.
func (s *Scheduler) Backup(ctx context.Context) (domain.BackupSnapshot, error) {
	body, err := s.source.ExportData()
	if err != nil {
		return domain.BackupSnapshot{}, fmt.Errorf("export: %w", err)
	}
	snap := domain.BackupSnapshot{ID: uuid.NewString(), CreatedAt: s.now().UTC(), Size: int64(len(body))}
	if err := s.repo.Create(ctx, snap, body); err != nil {
		return domain.BackupSnapshot{}, err
	}

	removed, err := s.repo.Prune(ctx, s.cfg.Keep)
	if err != nil {
		s.log.WithError(err).Warn("unable to prune old backups")
	}
	s.log.WithFields(logrus.Fields{
		"id":     snap.ID,
		"bytes":  snap.Size,
		"pruned": removed,
	}).Info("backup stored")
	return snap, nil
}

// List returns stored snapshots newest first.
func (s *Scheduler) List(ctx context.Context) ([]domain.BackupSnapshot, error) {
	return s.repo.List(ctx)
}
