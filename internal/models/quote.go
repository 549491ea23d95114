package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest known live price for a ticker, written by the price
// feed refresh job or the quote stream. Status records how the last fetch
// ended so downstream metrics can tell "no price yet" from "price is zero".
type Quote struct {
	Ticker         string          `gorm:"primaryKey;type:varchar(32)"`
	ResolvedTicker string          `gorm:"type:varchar(64);not null"`
	Price          decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0"`
	Status         string          `gorm:"type:varchar(10);not null;default:'loading'"`
	LastError      *string         `gorm:"type:text"`

	FetchedAt time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Quote) TableName() string {
	return "quotes"
}
