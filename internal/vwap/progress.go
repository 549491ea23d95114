package vwap

import (
	"github.com/shopspring/decimal"

	"vwaptrack/internal/models"
)

type TargetState string

const (
	// TargetResolved means a concrete remaining share count is known
	// (possibly zero, meaning the program is complete).
	TargetResolved TargetState = "resolved"
	// TargetPending means a notional target exists but the live price
	// needed to convert it into shares is unavailable.
	TargetPending TargetState = "pending"
	// TargetUnset means the program has no target configured at all.
	TargetUnset TargetState = "unset"
)

// Status reasons surfaced in place of a numeric pace.
const (
	ReasonPriceLoading  = "price loading"
	ReasonInvalidPrice  = "invalid price"
	ReasonDustRemainder = "remainder too small to fill one share"
	ReasonNoTarget      = "no target configured"
)

// RemainingTarget is the effective remaining share target, as a tagged
// variant rather than a nullable number plus a parallel status string.
// Shares is meaningful only when State is TargetResolved; Reason is set
// whenever a status message should be shown instead of (or alongside) the
// number.
type RemainingTarget struct {
	State  TargetState     `json:"state"`
	Shares decimal.Decimal `json:"shares"`
	Reason string          `json:"reason,omitempty"`
}

type PaceStep struct {
	Days         int             `json:"days"`
	SharesPerDay decimal.Decimal `json:"shares_per_day"`
}

type ProgressMetrics struct {
	Remaining  RemainingTarget `json:"remaining"`
	TradedDays int             `json:"traded_days"`

	// DaysUntilEarliest may be <= 0, meaning the earliest-completion
	// deadline has already passed. Nil when the limit is not configured.
	DaysUntilEarliest     *int `json:"days_until_earliest"`
	RemainingBusinessDays *int `json:"remaining_business_days"`

	// MaxPace is the required daily pace to finish by the earliest
	// deadline, MinPace the pace to finish within the business-day limit.
	// Either may be a status message instead of a number.
	MaxPace string `json:"max_pace"`
	MinPace string `json:"min_pace"`

	Breakdown []PaceStep `json:"breakdown,omitempty"`
}

type ProgressInput struct {
	Program     models.Program
	TradedDays  int
	CumQty      decimal.Decimal
	CumNotional decimal.Decimal
	Quote       LiveQuote
}

// ComputeProgress derives the remaining target, both deadline countdowns,
// the min/max pace texts and the day-by-day pacing breakdown.
func ComputeProgress(in ProgressInput) ProgressMetrics {
	remaining := resolveRemaining(in)
	m := ProgressMetrics{Remaining: remaining, TradedDays: in.TradedDays}

	if in.Program.EarliestDayLimit != nil {
		d := *in.Program.EarliestDayLimit - in.TradedDays
		m.DaysUntilEarliest = &d
	}
	if in.Program.BusinessDayLimit != nil {
		d := *in.Program.BusinessDayLimit - in.TradedDays
		m.RemainingBusinessDays = &d
	}

	m.MaxPace = paceText(remaining, m.DaysUntilEarliest, "deadline exceeded")
	m.MinPace = paceText(remaining, m.RemainingBusinessDays, "no remaining days")

	if remaining.State == TargetResolved && remaining.Shares.IsPositive() &&
		m.DaysUntilEarliest != nil && m.RemainingBusinessDays != nil &&
		*m.DaysUntilEarliest > 0 && *m.RemainingBusinessDays >= *m.DaysUntilEarliest {
		for d := *m.DaysUntilEarliest; d <= *m.RemainingBusinessDays; d++ {
			m.Breakdown = append(m.Breakdown, PaceStep{
				Days:         d,
				SharesPerDay: remaining.Shares.DivRound(decimal.NewFromInt(int64(d)), 0),
			})
		}
	}
	return m
}

// resolveRemaining applies the target priority: explicit share target, then
// notional target (needs a live price), then the unset/complete fallback.
func resolveRemaining(in ProgressInput) RemainingTarget {
	p := in.Program

	if p.TargetQty != nil && p.TargetQty.IsPositive() {
		rem := decimal.Max(decimal.Zero, p.TargetQty.Sub(in.CumQty))
		return RemainingTarget{State: TargetResolved, Shares: rem}
	}

	if p.TargetNotional != nil && p.TargetNotional.IsPositive() {
		switch in.Quote.Status {
		case QuoteLoading:
			return RemainingTarget{State: TargetPending, Reason: ReasonPriceLoading}
		case QuoteOK:
		default:
			return RemainingTarget{State: TargetPending, Reason: ReasonInvalidPrice}
		}
		if !in.Quote.Price.IsPositive() {
			return RemainingTarget{State: TargetPending, Reason: ReasonInvalidPrice}
		}
		remNotional := decimal.Max(decimal.Zero, p.TargetNotional.Sub(in.CumNotional))
		shares := remNotional.Div(in.Quote.Price)
		if shares.IsPositive() && shares.LessThan(one) {
			// The leftover notional buys less than one share; treat the
			// program as complete but keep the reason visible.
			return RemainingTarget{State: TargetResolved, Shares: decimal.Zero, Reason: ReasonDustRemainder}
		}
		return RemainingTarget{State: TargetResolved, Shares: shares}
	}

	// No positive target. Recorded fills or an explicit zero target mean
	// the program is simply done; otherwise nothing was ever configured.
	if in.TradedDays > 0 || p.TargetQty != nil || p.TargetNotional != nil {
		return RemainingTarget{State: TargetResolved, Shares: decimal.Zero}
	}
	return RemainingTarget{State: TargetUnset, Reason: ReasonNoTarget}
}

func paceText(rt RemainingTarget, deadline *int, exhausted string) string {
	if rt.Reason != "" {
		return rt.Reason
	}
	if rt.Shares.IsZero() {
		return "complete"
	}
	if deadline == nil {
		return "no deadline set"
	}
	if *deadline <= 0 {
		return exhausted
	}
	perDay := rt.Shares.DivRound(decimal.NewFromInt(int64(*deadline)), 0)
	return perDay.String() + " shares/day"
}
