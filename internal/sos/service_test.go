package sos

import (
	"errors"
	"testing"

	"github.com/example/omnipath/internal/models"
)

var testLoc = models.Location{Lat: 12.9716, Lng: 77.5946}

func TestActivateDefaults(t *testing.T) {
	s := NewService(nil)
	c, err := s.Activate("u1", testLoc, "", "")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if c.Type != "emergency" || c.Message != "Emergency assistance needed" {
		t.Fatalf("defaults wrong: %+v", c)
	}
	if c.Status != models.SOSActive || c.Priority != "high" {
		t.Fatalf("status wrong: %+v", c)
	}
	if c.Location.Accuracy != 10 {
		t.Fatalf("expected default accuracy 10, got %v", c.Location.Accuracy)
	}
	if len(c.Updates) != 1 || c.Updates[0].Status != string(models.SOSActive) {
		t.Fatalf("expected activation update, got %v", c.Updates)
	}
}

func TestActivateRequiresUserAndLocation(t *testing.T) {
	s := NewService(nil)
	if _, err := s.Activate("", testLoc, "", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := s.Activate("u1", models.Location{}, "", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestDeactivateOwnerOnly(t *testing.T) {
	s := NewService(nil)
	c, _ := s.Activate("u1", testLoc, "", "")

	if _, err := s.Deactivate(c.ID, "someone-else", ""); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("non-owner must not resolve, got %v", err)
	}

	resolved, err := s.Deactivate(c.ID, "u1", "")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if resolved.Status != models.SOSResolved || resolved.ResolutionReason != "User deactivated" {
		t.Fatalf("resolution wrong: %+v", resolved)
	}
	if len(s.ActiveForUser("u1")) != 0 {
		t.Fatal("resolved case still active")
	}
	if _, err := s.Deactivate(c.ID, "u1", ""); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("resolved case must be gone, got %v", err)
	}
}

func TestActiveForUserFiltersByOwner(t *testing.T) {
	s := NewService(nil)
	s.Activate("u1", testLoc, "", "")
	s.Activate("u1", testLoc, "medical", "")
	s.Activate("u2", testLoc, "", "")

	if got := len(s.ActiveForUser("u1")); got != 2 {
		t.Fatalf("expected 2 cases for u1, got %d", got)
	}
	if got := s.ActiveForUser("nobody"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestUpdateLocationAppendsTrail(t *testing.T) {
	s := NewService(nil)
	c, _ := s.Activate("u1", testLoc, "", "")

	moved := models.Location{Lat: 12.98, Lng: 77.61, Accuracy: 5}
	loc, err := s.UpdateLocation(c.ID, moved)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if loc.Lat != 12.98 || loc.Timestamp.IsZero() {
		t.Fatalf("location wrong: %+v", loc)
	}

	cases := s.ActiveForUser("u1")
	if len(cases) != 1 || len(cases[0].Updates) != 2 {
		t.Fatalf("expected trail of 2 updates, got %v", cases)
	}
	if cases[0].Location.Lat != 12.98 {
		t.Fatalf("case location not refreshed: %+v", cases[0].Location)
	}

	if _, err := s.UpdateLocation("sos_missing", moved); !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestCreateSilentAlert(t *testing.T) {
	s := NewService(nil)
	a, err := s.CreateSilentAlert("u1", testLoc, map[string]string{"to": "home"}, "22:30")
	if err != nil {
		t.Fatalf("silent: %v", err)
	}
	if a.Status != "monitoring" {
		t.Fatalf("expected monitoring, got %s", a.Status)
	}
	if a.DelayThreshold.Minutes() != 30 || a.NoMoveThreshold.Minutes() != 15 {
		t.Fatalf("thresholds wrong: %+v", a)
	}
	if _, err := s.CreateSilentAlert("u1", testLoc, nil, ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestDefaultContactsPublished(t *testing.T) {
	if len(DefaultContacts) != 4 {
		t.Fatalf("expected 4 contacts, got %d", len(DefaultContacts))
	}
	if DefaultContacts[0].Number != "112" {
		t.Fatalf("expected 112 first, got %s", DefaultContacts[0].Number)
	}
}
