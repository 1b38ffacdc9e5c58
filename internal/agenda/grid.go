package agenda

import "time"

// Grid is the row axis shared by the week and day calendar views: time labels
// spanning the union of every active weekday's window.
type Grid struct {
	StartMinutes int
	EndMinutes   int
	SlotMinutes  int
	Labels       []string
}

// BuildWeekGrid derives the weekly grid for a configuration.
//
// The bounds are the minimum start and maximum end across active weekdays
// only, so an inactive day never widens the grid, and every active day's
// window is a contiguous sub-range of the result. Labels run from the start
// inclusive to the end exclusive. With no active weekday (or only zero-width
// windows) the grid falls back to 06:00-22:00.
func BuildWeekGrid(cfg WeeklyConfig) Grid {
	minStart, maxEnd := -1, -1
	slot := 0

	for day := time.Sunday; day <= time.Saturday; day++ {
		window, active := ResolveDay(cfg, day)
		if !active {
			continue
		}
		start, okStart := MinutesOf(window.Start)
		end, okEnd := MinutesOf(window.End)
		if !okStart || !okEnd || end <= start {
			continue
		}
		if minStart == -1 || start < minStart {
			minStart = start
		}
		if end > maxEnd {
			maxEnd = end
		}
		if window.SlotMinutes > 0 && (slot == 0 || window.SlotMinutes < slot) {
			slot = window.SlotMinutes
		}
	}

	if minStart == -1 || maxEnd <= minStart {
		minStart, _ = MinutesOf(DefaultGridStart)
		maxEnd, _ = MinutesOf(DefaultGridEnd)
	}
	if slot <= 0 {
		slot = firstPositive(cfg.SlotMinutes, DefaultSlotMinutes)
	}

	labels := make([]string, 0, (maxEnd-minStart)/slot+1)
	for at := minStart; at < maxEnd; at += slot {
		labels = append(labels, LabelOf(at))
	}

	return Grid{
		StartMinutes: minStart,
		EndMinutes:   maxEnd,
		SlotMinutes:  slot,
		Labels:       labels,
	}
}
