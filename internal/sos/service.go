package sos

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/observability"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrCaseNotFound  = errors.New("sos case not found")
)

// Contact is a published emergency phone number.
type Contact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// DefaultContacts mirrors the numbers surfaced in the client.
var DefaultContacts = []Contact{
	{Name: "Emergency Services", Number: "112"},
	{Name: "Women Helpline", Number: "1091"},
	{Name: "Railway Security", Number: "182"},
	{Name: "Police", Number: "100"},
}

// Publisher is the optional event-stream hook for emergency events.
type Publisher interface {
	PublishSOS(caseID string, c *models.SOSCase) error
}

// Service manages active SOS cases. Resolved cases leave the active set;
// there is no archive.
type Service struct {
	Broadcast broadcast.Broadcaster
	Publisher Publisher

	mu    sync.Mutex
	cases map[string]*models.SOSCase
	now   func() time.Time
}

func NewService(bc broadcast.Broadcaster) *Service {
	if bc == nil {
		bc = broadcast.Nop{}
	}
	return &Service{Broadcast: bc, cases: make(map[string]*models.SOSCase), now: time.Now}
}

// Activate opens a new SOS case and alerts all connected clients.
func (s *Service) Activate(userID string, loc models.Location, caseType, message string) (*models.SOSCase, error) {
	if userID == "" || (loc.Lat == 0 && loc.Lng == 0) {
		return nil, ErrMissingFields
	}
	if caseType == "" {
		caseType = "emergency"
	}
	if message == "" {
		message = "Emergency assistance needed"
	}
	if loc.Accuracy == 0 {
		loc.Accuracy = 10
	}
	now := s.now()
	loc.Timestamp = now

	c := &models.SOSCase{
		ID:          "sos_" + uuid.NewString(),
		UserID:      userID,
		Location:    loc,
		Type:        caseType,
		Message:     message,
		Status:      models.SOSActive,
		Priority:    "high",
		ActivatedAt: now,
		Updates: []models.SOSUpdate{{
			Timestamp: now,
			Message:   "SOS alert activated",
			Status:    string(models.SOSActive),
		}},
	}

	s.mu.Lock()
	s.cases[c.ID] = c
	s.mu.Unlock()

	observability.SOSActivations.Inc()
	s.Broadcast.Emit(broadcast.EvEmergencyAlert, map[string]any{
		"id":          c.ID,
		"type":        "emergency",
		"priority":    "critical",
		"location":    c.Location,
		"message":     "Emergency alert activated - immediate assistance required",
		"activatedAt": c.ActivatedAt,
	})
	if s.Publisher != nil {
		_ = s.Publisher.PublishSOS(c.ID, c)
	}
	return c, nil
}

// Deactivate resolves the case and removes it from the active set. Only the
// owning user may resolve a case.
func (s *Service) Deactivate(caseID, userID, reason string) (*models.SOSCase, error) {
	if caseID == "" || userID == "" {
		return nil, ErrMissingFields
	}
	if reason == "" {
		reason = "User deactivated"
	}

	s.mu.Lock()
	c, ok := s.cases[caseID]
	if !ok || c.UserID != userID {
		s.mu.Unlock()
		return nil, ErrCaseNotFound
	}
	now := s.now()
	c.Status = models.SOSResolved
	c.ResolvedAt = now
	c.ResolutionReason = reason
	c.Updates = append(c.Updates, models.SOSUpdate{
		Timestamp: now,
		Message:   "SOS deactivated: " + reason,
		Status:    string(models.SOSResolved),
	})
	delete(s.cases, caseID)
	s.mu.Unlock()

	s.Broadcast.Emit(broadcast.EvEmergencyResolved, map[string]any{
		"sosId":      c.ID,
		"resolvedAt": c.ResolvedAt,
	})
	return c, nil
}

// ActiveForUser lists the user's open cases.
func (s *Service) ActiveForUser(userID string) []*models.SOSCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.SOSCase{}
	for _, c := range s.cases {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// UpdateLocation refreshes the tracked location on an open case.
func (s *Service) UpdateLocation(caseID string, loc models.Location) (*models.Location, error) {
	if caseID == "" || (loc.Lat == 0 && loc.Lng == 0) {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	c, ok := s.cases[caseID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrCaseNotFound
	}
	now := s.now()
	loc.Timestamp = now
	c.Location = loc
	c.Updates = append(c.Updates, models.SOSUpdate{
		Timestamp: now,
		Message:   "Location updated",
		Status:    "location_update",
	})
	s.mu.Unlock()

	s.Broadcast.Emit(broadcast.EvEmergencyLocation, map[string]any{
		"sosId":    caseID,
		"location": loc,
	})
	return &loc, nil
}

// SilentAlert is a journey-monitoring record: no siren, just automated
// escalation thresholds for delay or lack of movement.
type SilentAlert struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Location         models.Location `json:"location"`
	Route            any             `json:"route"`
	EstimatedArrival string          `json:"estimatedArrival"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	DelayThreshold   time.Duration   `json:"-"`
	NoMoveThreshold  time.Duration   `json:"-"`
}

// CreateSilentAlert starts silent journey monitoring.
func (s *Service) CreateSilentAlert(userID string, loc models.Location, route any, estimatedArrival string) (*SilentAlert, error) {
	if userID == "" || estimatedArrival == "" || (loc.Lat == 0 && loc.Lng == 0) {
		return nil, ErrMissingFields
	}
	return &SilentAlert{
		ID:               "silent_" + uuid.NewString(),
		UserID:           userID,
		Location:         loc,
		Route:            route,
		EstimatedArrival: estimatedArrival,
		Status:           "monitoring",
		CreatedAt:        s.now(),
		DelayThreshold:   30 * time.Minute,
		NoMoveThreshold:  15 * time.Minute,
	}, nil
}
