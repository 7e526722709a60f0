package crowd

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/observability"
)

// Blend weights for folding a new report into the stored estimate.
const (
	existingWeight = 0.7
	reportWeight   = 0.3
)

// contributorWindow bounds the trailing contributor log kept per station.
const contributorWindow = 5

var (
	ErrMissingStation = errors.New("stationId is required")
	ErrMissingCrowd   = errors.New("crowdPercentage is required")
)

// Publisher is the optional event-stream hook for accepted reports.
type Publisher interface {
	PublishCrowdReport(stationID string, sample *models.CrowdSample) error
}

// Aggregator maintains a smoothed crowd-level estimate per station from
// independent, untrusted reports.
type Aggregator struct {
	Store     Store
	Broadcast broadcast.Broadcaster
	Publisher Publisher

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewAggregator(store Store, bc broadcast.Broadcaster) *Aggregator {
	if bc == nil {
		bc = broadcast.Nop{}
	}
	return &Aggregator{
		Store:     store,
		Broadcast: bc,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// GetCurrent returns the last known sample for the station, or a synthetic
// placeholder when nothing has been reported yet. The placeholder stands in
// for an absent sensing backend and is never persisted.
func (a *Aggregator) GetCurrent(stationID string) (*models.CrowdSample, error) {
	if stationID == "" {
		return nil, ErrMissingStation
	}
	if s, ok := a.Store.Get(stationID); ok {
		return s, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return &models.CrowdSample{
		StationID:       stationID,
		CrowdPercentage: a.rng.Intn(80) + 10, // [10,90)
		SeatProbability: a.rng.Intn(90) + 5,  // [5,95)
		LastUpdated:     a.now().Add(-time.Duration(a.rng.Intn(300)) * time.Second),
		Reports:         0,
	}, nil
}

// Report blends a new crowd reading into the stored estimate:
//
//	new = round(existing*0.7 + reported*0.3), clamped to [0,100]
//
// A station with no stored sample blends against zero, matching the
// last-write-wins semantics of the original data path. Repeating an
// identical report converges the stored value toward it but integer
// rounding at each step may keep it one off.
func (a *Aggregator) Report(stationID string, crowdPercentage int, seatProbability *int) (*models.CrowdSample, error) {
	if stationID == "" {
		return nil, ErrMissingStation
	}

	existing, ok := a.Store.Get(stationID)
	if !ok {
		existing = &models.CrowdSample{StationID: stationID}
	}

	blended := int(math.Round(float64(existing.CrowdPercentage)*existingWeight + float64(crowdPercentage)*reportWeight))
	blended = clamp(blended, 0, 100)

	seat := 100 - crowdPercentage
	if seatProbability != nil {
		seat = *seatProbability
	}

	a.mu.Lock()
	accuracy := a.rng.Intn(30) + 70
	now := a.now()
	a.mu.Unlock()

	contributors := existing.Contributors
	if len(contributors) >= contributorWindow {
		contributors = contributors[len(contributors)-contributorWindow+1:]
	}
	contributors = append(contributors, models.Contributor{Timestamp: now, Accuracy: accuracy})

	sample := &models.CrowdSample{
		StationID:       stationID,
		CrowdPercentage: blended,
		SeatProbability: seat,
		LastUpdated:     now,
		Reports:         existing.Reports + 1,
		Contributors:    contributors,
	}
	if err := a.Store.Put(sample); err != nil {
		return nil, err
	}

	observability.CrowdReports.Inc()
	a.Broadcast.Emit(broadcast.EvCrowdUpdate, sample)
	if a.Publisher != nil {
		_ = a.Publisher.PublishCrowdReport(stationID, sample) // best effort
	}
	return sample, nil
}

// HourlyAverage is one bucket of the synthetic station analytics.
type HourlyAverage struct {
	Hour         int  `json:"hour"`
	AverageCrowd int  `json:"averageCrowd"`
	PeakTime     bool `json:"peakTimes"`
}

type WeeklyTrend struct {
	ThisWeek int `json:"thisWeek"`
	LastWeek int `json:"lastWeek"`
	Change   int `json:"change"`
}

type Prediction struct {
	NextHour   int `json:"nextHour"`
	Confidence int `json:"confidence"`
}

type Analytics struct {
	StationID      string          `json:"stationId"`
	HourlyAverages []HourlyAverage `json:"hourlyAverages"`
	WeeklyTrend    WeeklyTrend     `json:"weeklyTrend"`
	Predictions    Prediction      `json:"predictions"`
}

// AnalyticsFor synthesizes historical analytics; a real deployment would
// back this with an aggregation pipeline.
func (a *Aggregator) AnalyticsFor(stationID string) (*Analytics, error) {
	if stationID == "" {
		return nil, ErrMissingStation
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	hours := make([]HourlyAverage, 24)
	for h := range hours {
		hours[h] = HourlyAverage{
			Hour:         h,
			AverageCrowd: a.rng.Intn(60) + 20,
			PeakTime:     (h >= 7 && h <= 9) || (h >= 17 && h <= 19),
		}
	}
	return &Analytics{
		StationID:      stationID,
		HourlyAverages: hours,
		WeeklyTrend: WeeklyTrend{
			ThisWeek: a.rng.Intn(80) + 20,
			LastWeek: a.rng.Intn(80) + 20,
			Change:   a.rng.Intn(20) - 10,
		},
		Predictions: Prediction{
			NextHour:   a.rng.Intn(80) + 20,
			Confidence: a.rng.Intn(30) + 70,
		},
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
