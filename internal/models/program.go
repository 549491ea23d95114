package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Program is one VWAP execution program: a buy or sell target worked
// incrementally over a date range and measured against the running simple
// mean of daily session VWAPs.
//
// At most one of TargetQty / TargetNotional is the active target. Both
// absent (or zero with no fills recorded) means the target is unset.
type Program struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Ticker string `gorm:"type:varchar(32);not null;index"`
	Name   string `gorm:"type:varchar(128);not null"`
	Side   string `gorm:"type:varchar(4);not null"`

	TargetQty      *decimal.Decimal `gorm:"type:numeric(30,10)"`
	TargetNotional *decimal.Decimal `gorm:"type:numeric(30,10)"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`

	PriceLimit  *decimal.Decimal `gorm:"type:numeric(20,10)"`
	PerfFeePct  *decimal.Decimal `gorm:"type:numeric(20,10)"`
	FixedFeePct *decimal.Decimal `gorm:"type:numeric(20,10)"`

	EarliestDayLimit *int
	BusinessDayLimit *int
	ExcludedDays     int `gorm:"not null;default:0"`

	Status string `gorm:"type:varchar(20);not null;default:'active';index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Program) TableName() string {
	return "programs"
}
