package agenda

import "time"

// SlotStatus classifies a grid cell for a specific calendar day.
type SlotStatus string

const (
	// SlotBlocked marks a cell outside the day's own window. The cell exists
	// because another weekday extends the grid that far, but it is not
	// clickable.
	SlotBlocked SlotStatus = "bloqueado"
	// SlotFree marks an in-window cell with no lesson starting there.
	SlotFree SlotStatus = "livre"
	// SlotOccupied marks a cell where an existing lesson starts.
	SlotOccupied SlotStatus = "ocupado"
)

// Slot pairs a grid label with its state for one day.
type Slot struct {
	Label    string     `json:"horario"`
	Status   SlotStatus `json:"status"`
	LessonID string     `json:"aulaId,omitempty"`
}

// Booking is the minimal view of a lesson needed to mark occupancy.
type Booking struct {
	ID    string
	Start string
}

// DaySlots walks the weekly grid for one weekday, marking each cell as
// blocked, free, or occupied. A booking occupies the cell whose label equals
// its start time.
func DaySlots(cfg WeeklyConfig, day time.Weekday, bookings []Booking) []Slot {
	grid := BuildWeekGrid(cfg)
	window, active := ResolveDay(cfg, day)

	byStart := make(map[string]string, len(bookings))
	for _, booking := range bookings {
		if _, ok := byStart[booking.Start]; !ok {
			byStart[booking.Start] = booking.ID
		}
	}

	slots := make([]Slot, 0, len(grid.Labels))
	for _, label := range grid.Labels {
		slot := Slot{Label: label, Status: SlotBlocked}
		if active && WithinWindow(window, label) {
			if id, ok := byStart[label]; ok {
				slot.Status = SlotOccupied
				slot.LessonID = id
			} else {
				slot.Status = SlotFree
			}
		}
		slots = append(slots, slot)
	}
	return slots
}

// Assignment carries the teacher/location/modality references used to decide
// whether a lesson is attributable to an agenda.
type Assignment struct {
	ProfessorID  string
	LocalID      string
	ModalidadeID string
}

// Matches reports whether the lesson assignment satisfies the agenda's fixed
// references. An empty fixed field is a wildcard.
func (fixed Assignment) Matches(lesson Assignment) bool {
	if fixed.ProfessorID != "" && fixed.ProfessorID != lesson.ProfessorID {
		return false
	}
	if fixed.LocalID != "" && fixed.LocalID != lesson.LocalID {
		return false
	}
	if fixed.ModalidadeID != "" && fixed.ModalidadeID != lesson.ModalidadeID {
		return false
	}
	return true
}

// Fits is the attribution predicate: the lesson matches the agenda's fixed
// references and its start time lies within the aggregate window bounds.
func Fits(cfg WeeklyConfig, fixed Assignment, lesson Assignment, start string) bool {
	if !fixed.Matches(lesson) {
		return false
	}
	if cfg.Start == "" || cfg.End == "" {
		return true
	}
	return start >= cfg.Start && start < cfg.End
}
