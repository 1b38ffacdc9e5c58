package agenda

import (
	"fmt"
	"time"
)

// DefaultSlotMinutes applies when neither the day entry nor the aggregate
// window declares a slot interval.
const DefaultSlotMinutes = 60

// Default grid bounds used when no weekday is active.
const (
	DefaultGridStart = "06:00"
	DefaultGridEnd   = "22:00"
)

// DayWindow is the resolved availability of a single weekday: a half-open
// interval [Start, End) of "HH:MM" labels stepped by SlotMinutes.
type DayWindow struct {
	Active      bool
	Start       string
	End         string
	SlotMinutes int
}

// WeeklyConfig is the schedule configuration attached to a named agenda.
//
// Two shapes coexist. The legacy shape is the aggregate window (Start, End,
// SlotMinutes) plus the Weekdays index list. When Days carries exactly seven
// entries it takes precedence, and each entry may leave Start/End/SlotMinutes
// blank to inherit the aggregate values.
type WeeklyConfig struct {
	Start       string
	End         string
	SlotMinutes int
	Weekdays    []time.Weekday
	Days        []DayWindow
}

// ResolveDay produces the availability window for a weekday, reporting false
// when the weekday is inactive. Missing fields degrade to the aggregate
// window and ultimately to DefaultSlotMinutes; there is no error path.
func ResolveDay(cfg WeeklyConfig, day time.Weekday) (DayWindow, bool) {
	if day < time.Sunday || day > time.Saturday {
		return DayWindow{}, false
	}

	if len(cfg.Days) == 7 {
		entry := cfg.Days[int(day)]
		if !entry.Active {
			return DayWindow{}, false
		}
		resolved := DayWindow{
			Active:      true,
			Start:       firstNonEmpty(entry.Start, cfg.Start),
			End:         firstNonEmpty(entry.End, cfg.End),
			SlotMinutes: firstPositive(entry.SlotMinutes, cfg.SlotMinutes, DefaultSlotMinutes),
		}
		return resolved, true
	}

	if len(cfg.Weekdays) > 0 && !containsWeekday(cfg.Weekdays, day) {
		return DayWindow{}, false
	}

	return DayWindow{
		Active:      true,
		Start:       cfg.Start,
		End:         cfg.End,
		SlotMinutes: firstPositive(cfg.SlotMinutes, DefaultSlotMinutes),
	}, true
}

// WithinWindow reports whether an "HH:MM" label falls inside the half-open
// window. Labels are zero-padded, so lexicographic comparison is the time
// ordering. A window whose end is not strictly later than its start admits
// nothing.
func WithinWindow(w DayWindow, label string) bool {
	if !w.Active || w.Start == "" || w.End == "" {
		return false
	}
	if w.End <= w.Start {
		return false
	}
	return label >= w.Start && label < w.End
}

// DeriveAggregate recomputes the legacy aggregate window from a seven-entry
// day list, the way the agenda form does on save: earliest start and latest
// end among active days, the smallest positive per-day interval, and the
// list of active weekday indices. Inactive days never widen the window.
func DeriveAggregate(days []DayWindow) (start, end string, slotMinutes int, weekdays []time.Weekday) {
	slotMinutes = DefaultSlotMinutes
	if len(days) != 7 {
		return "", "", slotMinutes, nil
	}

	for i, entry := range days {
		if !entry.Active {
			continue
		}
		weekdays = append(weekdays, time.Weekday(i))
		if entry.Start != "" && (start == "" || entry.Start < start) {
			start = entry.Start
		}
		if entry.End != "" && (end == "" || entry.End > end) {
			end = entry.End
		}
		if entry.SlotMinutes > 0 && (slotMinutes == DefaultSlotMinutes || entry.SlotMinutes < slotMinutes) {
			slotMinutes = entry.SlotMinutes
		}
	}
	return start, end, slotMinutes, weekdays
}

// MinutesOf converts an "HH:MM" label into minutes since midnight. The second
// return value is false for malformed labels.
func MinutesOf(label string) (int, bool) {
	var hh, mm int
	if _, err := fmt.Sscanf(label, "%02d:%02d", &hh, &mm); err != nil {
		return 0, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// LabelOf renders minutes since midnight as a zero-padded "HH:MM" label.
func LabelOf(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

func containsWeekday(days []time.Weekday, target time.Weekday) bool {
	for _, day := range days {
		if day == target {
			return true
		}
	}
	return false
}
