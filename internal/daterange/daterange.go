// Package daterange resolves symbolic date-range tokens used by transaction
// listing and reports into concrete half-open [start, end) intervals.
package daterange

import (
	"time"

	"gorm.io/gorm"
)

// Tokens accepted by Resolve. Anything else means "no constraint".
const (
	Last7Days  = "last7days"
	Last30Days = "last30days"
	Last90Days = "last90days"
	ThisMonth  = "thisMonth"
	LastMonth  = "lastMonth"
	ThisYear   = "thisYear"
	LastYear   = "lastYear"
)

// Range is a half-open date interval. A nil Start means unbounded below,
// a nil End means open-ended (up to "now").
type Range struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether the range carries no constraint at all.
func (r Range) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && !t.Before(*r.End) {
		return false
	}
	return true
}

// Apply adds the range as a filter on the given date column. Start is
// inclusive, End is exclusive.
func (r Range) Apply(q *gorm.DB, column string) *gorm.DB {
	if r.Start != nil {
		q = q.Where(column+" >= ?", *r.Start)
	}
	if r.End != nil {
		q = q.Where(column+" < ?", *r.End)
	}
	return q
}

// Resolve maps a symbolic token to a concrete range anchored at now.
// Start values are normalized to midnight in now's location. An unrecognized
// or empty token yields a zero range, meaning no filtering is applied.
func Resolve(token string, now time.Time) Range {
	var start, end time.Time

	switch token {
	case Last7Days:
		start = now.AddDate(0, 0, -7)
	case Last30Days:
		start = now.AddDate(0, 0, -30)
	case Last90Days:
		start = now.AddDate(0, 0, -90)
	case ThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case LastMonth:
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case ThisYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	case LastYear:
		start = time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return Range{}
	}

	start = startOfDay(start)

	r := Range{Start: &start}
	if !end.IsZero() {
		r.End = &end
	}
	return r
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
