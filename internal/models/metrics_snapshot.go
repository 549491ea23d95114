package models

import (
	"time"

	"gorm.io/datatypes"
)

// MetricsSnapshot is a periodic capture of a program's computed
// progress/performance metrics, kept for charting and post-trade review.
type MetricsSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ProgramID  uint64    `gorm:"not null;index"`
	SnapshotAt time.Time `gorm:"type:timestamptz;not null;index"`

	Payload datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (MetricsSnapshot) TableName() string {
	return "metrics_snapshots"
}
