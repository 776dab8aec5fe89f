package domain

import "time"

// BackupSnapshot describes one stored copy of the exported document.
type BackupSnapshot struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Size      int64     `db:"size" json:"size"`
}
