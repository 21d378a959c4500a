// Package eligibility decides whether a bidding notice is still open.
package eligibility

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/normalize"
)

// Evaluator compares close dates against the injected clock. The zero value
// uses the wall clock and the default logger.
type Evaluator struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// IsOpen reports whether bidding closing on closeDate still accepts offers.
// A bidding stays open through the whole close day. Missing or unparseable
// dates count as open so nothing is dropped silently.
func (e Evaluator) IsOpen(closeDate string) bool {
	if normalize.IsSentinel(closeDate) {
		return true
	}
	now := e.now()
	closes, ok := normalize.Dates{Now: e.Now, Logger: e.Logger}.Parse(closeDate)
	if !ok {
		e.logger().Warn("eligibility.unparsed", "close_date", closeDate)
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := closes.AddDate(0, 0, 1).Add(-time.Millisecond)
	return !endOfDay.Before(today)
}

// Filter keeps the records whose bidding is still open, in order.
func (e Evaluator) Filter(recs []entity.ExtractedRecord) []entity.ExtractedRecord {
	out := make([]entity.ExtractedRecord, 0, len(recs))
	for _, r := range recs {
		if e.IsOpen(r.BiddingCloseDate) {
			out = append(out, r)
		}
	}
	return out
}

// IsOpen evaluates closeDate against the wall clock.
func IsOpen(closeDate string) bool { return Evaluator{}.IsOpen(closeDate) }

// Filter keeps open records using the wall clock.
func Filter(recs []entity.ExtractedRecord) []entity.ExtractedRecord {
	return Evaluator{}.Filter(recs)
}

func (e Evaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
