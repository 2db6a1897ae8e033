package scheduler

import (
	"context"
	"testing"

	"github.com/i474232898/panenku/internal/plant"
)

type stubDue struct {
	plants []plant.Plant
	window int
}

func (s *stubDue) DueForHarvest(_ context.Context, withinDays int) []plant.Plant {
	s.window = withinDays
	return s.plants
}

func TestSweepNotifiesDuePlants(t *testing.T) {
	due := &stubDue{plants: []plant.Plant{
		{ID: "a", Name: "Selada", DaysLeft: 2},
		{ID: "b", Name: "Tomat", DaysLeft: 3},
	}}
	s := New(Config{ReminderDays: 3, ReminderAt: "06:00"}, nil, due)

	var notified []string
	s.notify = func(p plant.Plant) { notified = append(notified, p.ID) }

	if n := s.Sweep(context.Background()); n != 2 {
		t.Fatalf("expected 2 due plants, got %d", n)
	}
	if due.window != 3 {
		t.Fatalf("expected window of 3 days, got %d", due.window)
	}
	if len(notified) != 2 || notified[0] != "a" || notified[1] != "b" {
		t.Fatalf("unexpected notifications %v", notified)
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(Config{ReminderDays: 1, ReminderAt: "06:00"}, func(context.Context) {}, &stubDue{})
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

func TestStartRejectsBadReminderTime(t *testing.T) {
	s := New(Config{ReminderAt: "late"}, nil, &stubDue{})
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid reminder time")
	}
}
