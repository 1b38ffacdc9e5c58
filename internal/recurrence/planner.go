package recurrence

import (
	"errors"
	"time"
)

// DateLayout is the civil-date format shared with the persistence layer.
// ISO dates compare lexicographically, which callers rely on.
const DateLayout = "2006-01-02"

// DefaultHorizonWeeks is the rolling coverage window for recurring lessons.
const DefaultHorizonWeeks = 12

var brt = time.FixedZone("BRT", -3*60*60)

// ErrInvalidDate indicates a date string that does not parse as DateLayout.
var ErrInvalidDate = errors.New("recurrence: invalid date")

// ErrInvalidHorizon indicates a non-positive horizon.
var ErrInvalidHorizon = errors.New("recurrence: horizon must be positive")

// Planner computes which weekly sibling dates a recurring lesson is missing.
type Planner struct {
	location     *time.Location
	horizonWeeks int
}

// NewPlanner constructs a Planner normalizing dates to the provided location.
// A nil location defaults to Brazil time; a non-positive horizon defaults to
// DefaultHorizonWeeks.
func NewPlanner(loc *time.Location, horizonWeeks int) *Planner {
	if loc == nil {
		loc = brt
	}
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	return &Planner{location: loc, horizonWeeks: horizonWeeks}
}

// HorizonWeeks exposes the configured rolling horizon.
func (p *Planner) HorizonWeeks() int {
	if p == nil {
		return DefaultHorizonWeeks
	}
	return p.horizonWeeks
}

// MissingDates returns the weekly dates that must be materialized so the
// recurrence covers now + horizon.
//
// The walk starts seven days after the latest known date (the seed's own
// date when no siblings exist) and steps week by week while the candidate
// is not past the horizon end. Recomputing from the maximum date on every
// run is what makes repeated invocations idempotent: a fully covered
// recurrence yields an empty plan.
func (p *Planner) MissingDates(seedDate string, existing []string, now time.Time) ([]string, error) {
	if p == nil {
		return nil, ErrInvalidHorizon
	}

	latest, err := time.ParseInLocation(DateLayout, seedDate, p.location)
	if err != nil {
		return nil, ErrInvalidDate
	}
	for _, date := range existing {
		parsed, err := time.ParseInLocation(DateLayout, date, p.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if parsed.After(latest) {
			latest = parsed
		}
	}

	horizonEnd := startOfDay(now.In(p.location)).AddDate(0, 0, p.horizonWeeks*7)
	if latest.After(horizonEnd) || latest.Equal(horizonEnd) {
		return nil, nil
	}

	var dates []string
	for candidate := latest.AddDate(0, 0, 7); !candidate.After(horizonEnd); candidate = candidate.AddDate(0, 0, 7) {
		dates = append(dates, candidate.Format(DateLayout))
	}
	return dates, nil
}

// InitialDates returns the up-to-count weekly dates following the seed,
// used when a recurring lesson is first created.
func (p *Planner) InitialDates(seedDate string, count int) ([]string, error) {
	if p == nil || count <= 0 {
		return nil, nil
	}
	seed, err := time.ParseInLocation(DateLayout, seedDate, p.location)
	if err != nil {
		return nil, ErrInvalidDate
	}

	dates := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		dates = append(dates, seed.AddDate(0, 0, 7*i).Format(DateLayout))
	}
	return dates, nil
}

// FromDate selects the dates greater than or equal to target, the
// "this and all future occurrences" set. Input order is preserved.
func FromDate(dates []string, target string) []string {
	if target == "" {
		return nil
	}
	selected := make([]string, 0, len(dates))
	for _, date := range dates {
		if date >= target {
			selected = append(selected, date)
		}
	}
	if len(selected) == 0 {
		return nil
	}
	return selected
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
