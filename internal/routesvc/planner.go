package routesvc

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/example/omnipath/internal/models"
)

var ErrMissingEndpoints = errors.New("missing required parameters: from, to")

// Planner produces route options between two points. RandomPlanner is a
// placeholder for a real routing engine; the interface is the seam where
// one would plug in.
type Planner interface {
	Plan(from, to string) ([]models.RouteOption, error)
	Optimize(routeID string) (*Optimization, error)
}

// Optimization is the result of re-planning against live conditions.
type Optimization struct {
	ID            string       `json:"id"`
	Optimizations []Suggestion `json:"optimizations"`
	UpdatedETA    time.Time    `json:"updatedETA"`
	Confidence    float64      `json:"confidence"`
}

type Suggestion struct {
	Type            string `json:"type"`
	Reason          string `json:"reason"`
	AlternativeMode string `json:"alternativeMode,omitempty"`
	TimeSaved       int    `json:"timeSaved"`
	CostImpact      int    `json:"costImpact"`
}

type RandomPlanner struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewRandomPlanner() *RandomPlanner {
	return &RandomPlanner{rng: rand.New(rand.NewSource(time.Now().UnixNano())), now: time.Now}
}

// Plan returns the three canonical route shapes with randomized numbers.
func (p *RandomPlanner) Plan(from, to string) ([]models.RouteOption, error) {
	if from == "" || to == "" {
		return nil, ErrMissingEndpoints
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return []models.RouteOption{
		{
			ID: "1", Name: "Fastest Route", From: from, To: to,
			Duration:              p.rng.Intn(30) + 30,
			Distance:              float64(p.rng.Intn(10) + 5),
			CongestionScore:       p.rng.Intn(50) + 20,
			WeatherRisk:           p.rng.Intn(30),
			AccessibilityFriendly: true,
			CarbonFootprint:       float64(p.rng.Intn(3) + 1),
			Cost:                  p.rng.Intn(30) + 25,
			Changes:               p.rng.Intn(2) + 1,
			Modes:                 []string{"Metro", "Bus"},
			Highlights:            []string{"Real-time updates", "Climate controlled"},
			Warnings:              []string{},
		},
		{
			ID: "2", Name: "Eco-Friendly Route", From: from, To: to,
			Duration:              p.rng.Intn(40) + 45,
			Distance:              float64(p.rng.Intn(12) + 8),
			CongestionScore:       p.rng.Intn(30) + 10,
			WeatherRisk:           p.rng.Intn(25) + 5,
			AccessibilityFriendly: true,
			CarbonFootprint:       float64(p.rng.Intn(2)) + 0.5,
			Cost:                  p.rng.Intn(25) + 20,
			Changes:               p.rng.Intn(3) + 1,
			Modes:                 []string{"Metro", "Electric Bus", "Walk"},
			Highlights:            []string{"70% lower emissions", "Green corridor"},
			Warnings:              []string{"5 min walk required"},
		},
		{
			ID: "3", Name: "Budget Route", From: from, To: to,
			Duration:              p.rng.Intn(50) + 55,
			Distance:              float64(p.rng.Intn(15) + 10),
			CongestionScore:       p.rng.Intn(40) + 30,
			WeatherRisk:           p.rng.Intn(35) + 10,
			AccessibilityFriendly: false,
			CarbonFootprint:       float64(p.rng.Intn(3)) + 1.5,
			Cost:                  p.rng.Intn(20) + 15,
			Changes:               p.rng.Intn(4) + 2,
			Modes:                 []string{"Bus", "Shared Auto", "Bus"},
			Highlights:            []string{"Lowest cost", "Local experience"},
			Warnings:              []string{"Moderate congestion", "Not fully accessible"},
		},
	}, nil
}

// Optimize suggests reroutes against simulated live conditions.
func (p *RandomPlanner) Optimize(routeID string) (*Optimization, error) {
	return &Optimization{
		ID: routeID,
		Optimizations: []Suggestion{
			{Type: "reroute", Reason: "Traffic congestion detected", TimeSaved: 5, CostImpact: 0},
			{Type: "mode_switch", Reason: "Metro delay reported", AlternativeMode: "Express Bus", TimeSaved: 8, CostImpact: -5},
		},
		UpdatedETA: p.now().Add(45 * time.Minute),
		Confidence: 0.85,
	}, nil
}
