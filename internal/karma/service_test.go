package karma

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(s *Service, t time.Time) {
	s.now = func() time.Time { return t }
}

func TestGetSeedsDemoProfile(t *testing.T) {
	s := NewService()
	k := s.Get("newcomer")
	if k.CommutePoints != 850 || k.GreenPoints != 320 {
		t.Fatalf("demo seed wrong: %+v", k)
	}
	if k.Level.Name != "Eco Warrior" {
		t.Fatalf("level wrong: %+v", k.Level)
	}
}

func TestAddPointsHalvesGreen(t *testing.T) {
	s := NewService()
	k, _, err := s.AddPoints("u1", "metro_trip", 25, 2.5)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if k.CommutePoints != 25 || k.GreenPoints != 12 {
		t.Fatalf("points wrong: commute=%d green=%d", k.CommutePoints, k.GreenPoints)
	}
	if k.TotalCarbonSaved != 2.5 || k.TotalTrips != 1 {
		t.Fatalf("totals wrong: %+v", k)
	}
}

func TestAddPointsValidation(t *testing.T) {
	s := NewService()
	if _, _, err := s.AddPoints("", "walk", 10, 0); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, _, err := s.AddPoints("u1", "walk", 0, 0); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestStreakExtendsOncePerDay(t *testing.T) {
	s := NewService()
	day1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	fixedClock(s, day1)

	k, _, _ := s.AddPoints("u1", "cycle", 10, 0)
	if k.CurrentStreak != 1 {
		t.Fatalf("expected streak 1, got %d", k.CurrentStreak)
	}

	// second activity the same day does not extend
	fixedClock(s, day1.Add(6*time.Hour))
	k, _, _ = s.AddPoints("u1", "walk", 10, 0)
	if k.CurrentStreak != 1 {
		t.Fatalf("same-day streak extended: %d", k.CurrentStreak)
	}

	fixedClock(s, day1.AddDate(0, 0, 1))
	k, _, _ = s.AddPoints("u1", "metro_trip", 10, 0)
	if k.CurrentStreak != 2 || k.LongestStreak != 2 {
		t.Fatalf("expected streak 2/2, got %d/%d", k.CurrentStreak, k.LongestStreak)
	}
}

func TestCarbonNinjaUnlocksOnce(t *testing.T) {
	s := NewService()
	_, unlocked, _ := s.AddPoints("u1", "metro_trip", 10, 105)
	if len(unlocked) != 1 || unlocked[0].ID != "carbon_ninja" {
		t.Fatalf("expected carbon_ninja, got %v", unlocked)
	}
	_, unlocked, _ = s.AddPoints("u1", "metro_trip", 10, 50)
	if len(unlocked) != 0 {
		t.Fatalf("achievement unlocked twice: %v", unlocked)
	}
	if got := s.Achievements("u1"); len(got) != 1 {
		t.Fatalf("expected 1 stored achievement, got %d", len(got))
	}
}

func TestRewardsAvailability(t *testing.T) {
	s := NewService()
	s.AddPoints("u1", "walk", 120, 0) // known user, 120 points

	rewards, balance := s.Rewards("u1")
	if balance != 120 {
		t.Fatalf("expected balance 120, got %d", balance)
	}
	for _, r := range rewards {
		want := r.Cost <= 120
		if r.Available != want {
			t.Fatalf("availability wrong for %s (cost %d): %v", r.ID, r.Cost, r.Available)
		}
	}
}

func TestRedeemDeductsBalance(t *testing.T) {
	s := NewService()
	// unknown user starts from the seeded 850
	red, remaining, err := s.Redeem("u1", "premium_access")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if red.Cost != 300 || remaining != 550 {
		t.Fatalf("expected cost 300 remaining 550, got %d/%d", red.Cost, remaining)
	}
	if red.Status != "active" || len(red.Code) != 8 {
		t.Fatalf("redemption record wrong: %+v", red)
	}
}

func TestRedeemInsufficientPoints(t *testing.T) {
	s := NewService()
	s.AddPoints("poor", "walk", 10, 0)
	_, balance, err := s.Redeem("poor", "tree_planting")
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if balance != 10 {
		t.Fatalf("balance must be untouched, got %d", balance)
	}
}

func TestRedeemUnknownReward(t *testing.T) {
	s := NewService()
	if _, _, err := s.Redeem("u1", "free_yacht"); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("expected ErrRewardNotFound, got %v", err)
	}
	if _, _, err := s.Redeem("u1", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestImpactEquivalents(t *testing.T) {
	s := NewService()
	s.AddPoints("u1", "metro_trip", 10, 50)
	imp := s.Impact("u1")
	if imp.TotalCarbonSaved != 50 {
		t.Fatalf("expected 50kg, got %v", imp.TotalCarbonSaved)
	}
	if imp.Equivalents["carKmAvoided"] != 220 {
		t.Fatalf("expected 220 car km, got %v", imp.Equivalents["carKmAvoided"])
	}
	if imp.Equivalents["trees"] != 2.2 {
		t.Fatalf("expected 2.2 trees, got %v", imp.Equivalents["trees"])
	}
}
