package vwap

import "github.com/shopspring/decimal"

// AdjustedBenchmark blends the historical benchmark with the live price as
// if today's trade occurred at that price. With no traded days the live
// price is the whole benchmark.
func AdjustedBenchmark(benchmark decimal.Decimal, tradedDays int, price decimal.Decimal) decimal.Decimal {
	if tradedDays <= 0 {
		return price
	}
	days := decimal.NewFromInt(int64(tradedDays))
	return benchmark.Mul(days).Add(price).Div(days.Add(one))
}

// Deviation is the signed percentage gap between the live price and the
// adjusted benchmark. Nil when the quote is unavailable or the adjusted
// benchmark is zero.
func Deviation(side Side, quote LiveQuote, benchmark decimal.Decimal, tradedDays int) *decimal.Decimal {
	if quote.Status != QuoteOK {
		return nil
	}
	adj := AdjustedBenchmark(benchmark, tradedDays, quote.Price)
	if adj.IsZero() {
		return nil
	}
	dev := side.Sign().Mul(adj.Sub(quote.Price)).Div(adj).Mul(hundred)
	return &dev
}
