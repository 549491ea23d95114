package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyFill is one trading day's execution for a program. Rows are immutable
// historical facts; cumulative aggregates are computed per request by the
// engine and never persisted.
type DailyFill struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProgramID uint64    `gorm:"not null;uniqueIndex:idx_program_fill_date;index"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_program_fill_date"`

	FilledQty      decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	FilledAvgPrice decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	DayVWAP        decimal.Decimal `gorm:"column:day_vwap;type:numeric(20,10);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (DailyFill) TableName() string {
	return "daily_fills"
}
