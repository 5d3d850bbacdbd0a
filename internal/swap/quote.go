package swap

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuoteTimeout bounds a quote's validity when the venue has no
// timeout of its own configured.
const DefaultQuoteTimeout = 90 * time.Second

// Quote is a time-bounded price offer from one venue for a specific
// pair and input amount. Quotes are immutable once built; freshness is
// checked against AliveUntil at display time and, authoritatively,
// inside submit-step validation.
type Quote struct {
	Pair       Pair            `json:"pair"`
	FromAmount string          `json:"from_amount"`
	ToAmount   string          `json:"to_amount"`
	Rate       decimal.Decimal `json:"rate"`
	Provider   string          `json:"provider"`
	AliveUntil time.Time       `json:"alive_until"`
	Fee        FeeInfo         `json:"fee"`
	Route      []string        `json:"route,omitempty"`
}

// Expired reports whether the quote may no longer be submitted. The
// deadline itself counts as expired.
func (q *Quote) Expired(now time.Time) bool {
	return !now.Before(q.AliveUntil)
}
