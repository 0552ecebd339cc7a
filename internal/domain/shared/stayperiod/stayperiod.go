package stayperiod

import (
	"errors"
	"time"
)

var (
	ErrInvalidPeriod = errors.New("stayperiod: check-out must be after check-in")
)

// Period represents a half-open stay interval [CheckIn, CheckOut). The
// check-out day itself is not occupied, which is what makes same-day turnover
// (one guest out in the morning, the next in that afternoon) conflict-free.
type Period struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (Period, error) {
	p := Period{CheckIn: midnightUTC(checkIn), CheckOut: midnightUTC(checkOut)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		return ErrInvalidPeriod
	}
	if !p.CheckOut.After(p.CheckIn) {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) Nights() int {
	return int(p.CheckOut.Sub(p.CheckIn).Hours() / 24)
}

// Overlaps reports whether two periods share at least one night. Periods that
// only touch at a boundary day do not overlap.
func (p Period) Overlaps(other Period) bool {
	return p.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(p.CheckOut)
}

func (p Period) ContainsDate(t time.Time) bool {
	t = midnightUTC(t)
	return !t.Before(p.CheckIn) && t.Before(p.CheckOut)
}

// WeekStart returns the Saturday on or before t. Price weeks in this domain
// always run Saturday to Saturday.
func WeekStart(t time.Time) time.Time {
	t = midnightUTC(t)
	back := (int(t.Weekday()) + 1) % 7
	return t.AddDate(0, 0, -back)
}

// WeekSegment is the portion of a stay that falls inside one price week.
type WeekSegment struct {
	WeekStart time.Time
	Nights    int
}

// WeekSegments splits the period into its overlapping Saturday-anchored price
// weeks, in chronological order. The segment nights always sum to Nights().
func (p Period) WeekSegments() []WeekSegment {
	if p.Validate() != nil {
		return nil
	}
	var segments []WeekSegment
	for ws := WeekStart(p.CheckIn); ws.Before(p.CheckOut); ws = ws.AddDate(0, 0, 7) {
		week := Period{CheckIn: ws, CheckOut: ws.AddDate(0, 0, 7)}
		nights := p.intersectNights(week)
		if nights > 0 {
			segments = append(segments, WeekSegment{WeekStart: ws, Nights: nights})
		}
	}
	return segments
}

func (p Period) intersectNights(other Period) int {
	start := p.CheckIn
	if other.CheckIn.After(start) {
		start = other.CheckIn
	}
	end := p.CheckOut
	if other.CheckOut.Before(end) {
		end = other.CheckOut
	}
	if !end.After(start) {
		return 0
	}
	return Period{CheckIn: start, CheckOut: end}.Nights()
}

// WeekKey formats a week-start date the way the price table keys it.
func WeekKey(t time.Time) string {
	return midnightUTC(t).Format("2006-01-02")
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
