package karma

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/omnipath/internal/models"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrInsufficientPoints = errors.New("insufficient karma points")
)

// Achievement marks a milestone a user has unlocked.
type Achievement struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AchievedAt time.Time `json:"achievedAt"`
	Points     int       `json:"points"`
}

// Reward is a catalogue entry points can be redeemed against.
type Reward struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Type        string `json:"type"`
	Available   bool   `json:"available"`
	ValidFor    string `json:"validFor"`
}

// Redemption records a spent reward.
type Redemption struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	RewardID   string    `json:"rewardId"`
	Cost       int       `json:"cost"`
	RedeemedAt time.Time `json:"redeemedAt"`
	Status     string    `json:"status"`
	Code       string    `json:"code"`
}

var rewardCatalogue = []Reward{
	{ID: "discount_20", Title: "20% Off Next Ride", Description: "Valid for any transport mode", Cost: 100, Type: "discount", ValidFor: "30 days"},
	{ID: "coffee_voucher", Title: "Coffee Voucher", Description: "Free coffee at partner cafes", Cost: 150, Type: "voucher", ValidFor: "60 days"},
	{ID: "premium_access", Title: "Premium Features", Description: "1 week of premium access", Cost: 300, Type: "upgrade", ValidFor: "7 days"},
	{ID: "tree_planting", Title: "Plant a Tree", Description: "Donate to reforestation project", Cost: 500, Type: "donation", ValidFor: "Permanent"},
}

// Service keeps per-user karma ledgers and achievement history. Pure
// score-keeping: nothing here gates any other subsystem.
type Service struct {
	mu           sync.Mutex
	users        map[string]*models.Karma
	achievements map[string][]Achievement
	now          func() time.Time
}

func NewService() *Service {
	return &Service{
		users:        make(map[string]*models.Karma),
		achievements: make(map[string][]Achievement),
		now:          time.Now,
	}
}

// Get returns the user's ledger, seeding a demo profile for unknown users.
func (s *Service) Get(userID string) *models.Karma {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.users[userID]; ok {
		cp := *k
		return &cp
	}
	return &models.Karma{
		UserID:           userID,
		CommutePoints:    850,
		GreenPoints:      320,
		TotalCarbonSaved: 125.5,
		CurrentStreak:    12,
		LongestStreak:    28,
		TotalTrips:       89,
		Level:            models.KarmaLevel{Current: 3, Name: "Eco Warrior", NextLevel: 4, PointsToNext: 150},
		UpdatedAt:        s.now(),
	}
}

// AddPoints credits points for an eco-friendly activity. Green points
// accrue at half rate; one activity per calendar day extends the streak.
func (s *Service) AddPoints(userID, activity string, points int, carbonSaved float64) (*models.Karma, []Achievement, error) {
	if userID == "" || activity == "" || points == 0 {
		return nil, nil, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.users[userID]
	if !ok {
		k = &models.Karma{UserID: userID}
		s.users[userID] = k
	}

	k.CommutePoints += points
	k.GreenPoints += points / 2
	k.TotalCarbonSaved += carbonSaved

	today := s.now().Format("2006-01-02")
	if k.LastActivityDay != today {
		k.CurrentStreak++
		k.LastActivityDay = today
		if k.CurrentStreak > k.LongestStreak {
			k.LongestStreak = k.CurrentStreak
		}
	}
	k.TotalTrips++
	k.UpdatedAt = s.now()

	unlocked := s.checkAchievements(userID, k)
	cp := *k
	return &cp, unlocked, nil
}

func (s *Service) checkAchievements(userID string, k *models.Karma) []Achievement {
	var unlocked []Achievement
	if k.TotalCarbonSaved >= 100 && !s.hasAchievement(userID, "carbon_ninja") {
		unlocked = append(unlocked, Achievement{ID: "carbon_ninja", Title: "Carbon Ninja", AchievedAt: s.now(), Points: 300})
	}
	if k.CurrentStreak >= 30 && !s.hasAchievement(userID, "streak_master") {
		unlocked = append(unlocked, Achievement{ID: "streak_master", Title: "Streak Master", AchievedAt: s.now(), Points: 500})
	}
	if len(unlocked) > 0 {
		s.achievements[userID] = append(s.achievements[userID], unlocked...)
	}
	return unlocked
}

func (s *Service) hasAchievement(userID, id string) bool {
	for _, a := range s.achievements[userID] {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Achievements returns what the user has unlocked so far.
func (s *Service) Achievements(userID string) []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Achievement(nil), s.achievements[userID]...)
}

// Rewards lists the catalogue with availability computed against the
// user's balance.
func (s *Service) Rewards(userID string) ([]Reward, int) {
	balance := s.Get(userID).CommutePoints
	out := make([]Reward, len(rewardCatalogue))
	for i, r := range rewardCatalogue {
		r.Available = balance >= r.Cost
		out[i] = r
	}
	return out, balance
}

// Redeem spends points on a reward and returns the redemption record.
func (s *Service) Redeem(userID, rewardID string) (*Redemption, int, error) {
	if rewardID == "" {
		return nil, 0, ErrMissingFields
	}
	var reward *Reward
	for i := range rewardCatalogue {
		if rewardCatalogue[i].ID == rewardID {
			reward = &rewardCatalogue[i]
			break
		}
	}
	if reward == nil {
		return nil, 0, ErrRewardNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.users[userID]
	if !ok {
		// unknown users start from the seeded demo balance
		k = &models.Karma{UserID: userID, CommutePoints: 850}
		s.users[userID] = k
	}
	if k.CommutePoints < reward.Cost {
		return nil, k.CommutePoints, ErrInsufficientPoints
	}
	k.CommutePoints -= reward.Cost
	k.UpdatedAt = s.now()

	red := &Redemption{
		ID:         "redemption_" + uuid.NewString(),
		UserID:     userID,
		RewardID:   rewardID,
		Cost:       reward.Cost,
		RedeemedAt: s.now(),
		Status:     "active",
		Code:       redemptionCode(),
	}
	return red, k.CommutePoints, nil
}

// Impact derives environmental equivalents from the carbon total.
type Impact struct {
	TotalCarbonSaved float64            `json:"totalCarbonSaved"`
	Equivalents      map[string]float64 `json:"equivalents"`
}

func (s *Service) Impact(userID string) Impact {
	saved := s.Get(userID).TotalCarbonSaved
	return Impact{
		TotalCarbonSaved: saved,
		Equivalents: map[string]float64{
			"trees":               math.Floor(saved/21.77*10) / 10,
			"carKmAvoided":        math.Floor(saved * 4.4),
			"plasticBottlesSaved": math.Floor(saved * 45),
			"energyConserved":     math.Floor(saved * 2.2),
		},
	}
}

func redemptionCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
