package agenda

import (
	"testing"
	"time"
)

func TestDaySlotsOccupancyAndGating(t *testing.T) {
	cfg := WeeklyConfig{
		Days: sevenDays(map[int]DayWindow{
			1: {Active: true, Start: "07:00", End: "12:00", SlotMinutes: 30},
			3: {Active: true, Start: "08:00", End: "12:00", SlotMinutes: 30},
		}),
	}

	bookings := []Booking{{ID: "aula-1", Start: "08:00"}}

	t.Run("in-window slot reports occupancy", func(t *testing.T) {
		slots := DaySlots(cfg, time.Wednesday, bookings)
		slot := findSlot(t, slots, "08:00")
		if slot.Status != SlotOccupied {
			t.Fatalf("expected 08:00 to be occupied, got %s", slot.Status)
		}
		if slot.LessonID != "aula-1" {
			t.Fatalf("expected lesson aula-1, got %q", slot.LessonID)
		}
	})

	t.Run("in-window empty slot is free", func(t *testing.T) {
		slots := DaySlots(cfg, time.Wednesday, bookings)
		if slot := findSlot(t, slots, "09:00"); slot.Status != SlotFree {
			t.Fatalf("expected 09:00 free, got %s", slot.Status)
		}
	})

	t.Run("grid cell outside the day window is blocked", func(t *testing.T) {
		// Monday extends the grid back to 07:00; Wednesday starts at 08:00,
		// so its 07:00 cell exists but is not clickable.
		slots := DaySlots(cfg, time.Wednesday, bookings)
		if slot := findSlot(t, slots, "07:00"); slot.Status != SlotBlocked {
			t.Fatalf("expected 07:00 blocked on Wednesday, got %s", slot.Status)
		}
	})

	t.Run("inactive day keeps every cell blocked", func(t *testing.T) {
		slots := DaySlots(cfg, time.Sunday, bookings)
		for _, slot := range slots {
			if slot.Status != SlotBlocked {
				t.Fatalf("expected all Sunday cells blocked, %s is %s", slot.Label, slot.Status)
			}
		}
	})
}

func TestAssignmentMatches(t *testing.T) {
	fixed := Assignment{ProfessorID: "prof-1", LocalID: "quadra-2"}

	if !fixed.Matches(Assignment{ProfessorID: "prof-1", LocalID: "quadra-2", ModalidadeID: "beach"}) {
		t.Error("expected match when fixed fields agree and modality is unconstrained")
	}
	if fixed.Matches(Assignment{ProfessorID: "prof-9", LocalID: "quadra-2"}) {
		t.Error("expected mismatch on teacher")
	}
	if !(Assignment{}).Matches(Assignment{ProfessorID: "anyone"}) {
		t.Error("empty fixed assignment must match everything")
	}
}

func TestFits(t *testing.T) {
	cfg := WeeklyConfig{Start: "07:00", End: "21:00"}
	fixed := Assignment{ModalidadeID: "tenis"}

	if !Fits(cfg, fixed, Assignment{ModalidadeID: "tenis"}, "07:00") {
		t.Error("expected start at window open to fit")
	}
	if Fits(cfg, fixed, Assignment{ModalidadeID: "tenis"}, "21:00") {
		t.Error("expected start at window close to be rejected")
	}
	if Fits(cfg, fixed, Assignment{ModalidadeID: "beach"}, "10:00") {
		t.Error("expected modality mismatch to be rejected")
	}
}

func findSlot(t *testing.T, slots []Slot, label string) Slot {
	t.Helper()
	for _, slot := range slots {
		if slot.Label == label {
			return slot
		}
	}
	t.Fatalf("label %s not present in grid", label)
	return Slot{}
}
