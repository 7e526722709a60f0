package weather

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/models"
)

const (
	defaultAlertTTL = time.Hour
	reportAlertTTL  = 2 * time.Hour
	sweepInterval   = time.Minute
)

var ErrMissingFields = errors.New("missing required fields")

// Service holds active weather alerts and turns severe user reports into
// alerts. Expired alerts are removed by a periodic sweep.
type Service struct {
	Broadcast broadcast.Broadcaster
	Provider  Provider

	mu     sync.Mutex
	alerts []models.WeatherAlert
	now    func() time.Time
}

func NewService(bc broadcast.Broadcaster, provider Provider) *Service {
	if bc == nil {
		bc = broadcast.Nop{}
	}
	if provider == nil {
		provider = NewRandomProvider()
	}
	return &Service{Broadcast: bc, Provider: provider, now: time.Now}
}

// CreateAlert registers a new alert and pushes it to connected clients.
func (s *Service) CreateAlert(alertType, severity, message string, affectedAreas []string, duration time.Duration) (*models.WeatherAlert, error) {
	if alertType == "" || severity == "" || message == "" {
		return nil, ErrMissingFields
	}
	if duration <= 0 {
		duration = defaultAlertTTL
	}
	if affectedAreas == nil {
		affectedAreas = []string{}
	}
	alert := models.WeatherAlert{
		ID:            "alert_" + uuid.NewString(),
		Type:          alertType,
		Severity:      severity,
		Message:       message,
		AffectedAreas: affectedAreas,
		CreatedAt:     s.now(),
		ExpiresAt:     s.now().Add(duration),
	}
	s.mu.Lock()
	s.alerts = append(s.alerts, alert)
	s.mu.Unlock()

	s.Broadcast.Emit(broadcast.EvWeatherUpdate, alert)
	return &alert, nil
}

// ActiveAlerts returns alerts that have not yet expired.
func (s *Service) ActiveAlerts() []models.WeatherAlert {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WeatherAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.ExpiresAt.After(now) {
			out = append(out, a)
		}
	}
	return out
}

// Report is a user-submitted weather observation.
type Report struct {
	ID         string    `json:"id"`
	Condition  string    `json:"condition"`
	Location   Location  `json:"location"`
	Severity   string    `json:"severity"`
	ReportedBy string    `json:"reportedBy"`
	Timestamp  time.Time `json:"timestamp"`
	Verified   bool      `json:"verified"`
}

type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Area string  `json:"area,omitempty"`
}

// SubmitReport records a user observation. High-severity reports auto-raise
// a two-hour alert for the reported area.
func (s *Service) SubmitReport(condition string, loc *Location, severity, userID string) (*Report, error) {
	if condition == "" || loc == nil {
		return nil, ErrMissingFields
	}
	if severity == "" {
		severity = "medium"
	}
	if userID == "" {
		userID = "anonymous"
	}
	report := &Report{
		ID:         "report_" + uuid.NewString(),
		Condition:  condition,
		Location:   *loc,
		Severity:   severity,
		ReportedBy: userID,
		Timestamp:  s.now(),
	}

	if severity == "high" {
		area := loc.Area
		if area == "" {
			area = "Local area"
		}
		now := s.now()
		alert := models.WeatherAlert{
			ID:            "alert_" + uuid.NewString(),
			Type:          condition,
			Severity:      "high",
			Message:       "Severe " + condition + " reported by users",
			AffectedAreas: []string{area},
			CreatedAt:     now,
			ExpiresAt:     now.Add(reportAlertTTL),
		}
		s.mu.Lock()
		s.alerts = append(s.alerts, alert)
		s.mu.Unlock()
		s.Broadcast.Emit(broadcast.EvWeatherUpdate, alert)
	}
	return report, nil
}

// Sweep drops expired alerts. Call it on a ticker via Run.
func (s *Service) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.alerts[:0]
	removed := 0
	for _, a := range s.alerts {
		if a.ExpiresAt.After(now) {
			kept = append(kept, a)
		} else {
			removed++
		}
	}
	s.alerts = kept
	return removed
}

// Run sweeps expired alerts every minute until the context is done.
func (s *Service) Run(done <-chan struct{}) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
