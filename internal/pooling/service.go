package pooling

import (
	"fmt"
	"iter"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/observability"
	"github.com/example/omnipath/internal/storage"
)

const defaultEstimatedFare = 50

// Service tracks candidate ride-share groups and their membership.
//
// Lifecycle: a pool is created forming with the creator as sole member,
// auto-confirms when membership reaches MaxMembers, and is cancelled and
// removed from the active set when the creator leaves or it empties.
// Confirmed pools can be moved through in_transit to completed.
type Service struct {
	Store     storage.PoolStore
	Broadcast broadcast.Broadcaster

	mu      sync.Mutex
	ratings []Rating
	rng     *rand.Rand
	now     func() time.Time
}

// Rating is a pool experience score left by a member after a trip.
type Rating struct {
	PoolID       string    `json:"poolId"`
	RatedBy      string    `json:"ratedBy"`
	Rating       int       `json:"rating"`
	Feedback     string    `json:"feedback"`
	RatedMembers []string  `json:"ratedMembers"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewService(store storage.PoolStore, bc broadcast.Broadcaster) *Service {
	if bc == nil {
		bc = broadcast.Nop{}
	}
	return &Service{
		Store:     store,
		Broadcast: bc,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// CreateRequest carries the fields needed to open a new pool.
type CreateRequest struct {
	Destination   string            `json:"destination"`
	DepartureTime string            `json:"departureTime"`
	MaxMembers    int               `json:"maxMembers"`
	MeetingPoint  string            `json:"meetingPoint"`
	UserID        string            `json:"userId"`
	UserProfile   models.PoolMember `json:"userProfile"`
	EstimatedFare int               `json:"estimatedFare"`
}

func (s *Service) Create(req CreateRequest) (*models.Pool, error) {
	var missing []string
	if req.Destination == "" {
		missing = append(missing, "destination")
	}
	if req.DepartureTime == "" {
		missing = append(missing, "departureTime")
	}
	if req.MaxMembers <= 0 {
		missing = append(missing, "maxMembers")
	}
	if req.UserID == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	fare := req.EstimatedFare
	if fare <= 0 {
		fare = defaultEstimatedFare
	}
	meeting := req.MeetingPoint
	if meeting == "" {
		meeting = "To be decided"
	}

	creator := req.UserProfile
	creator.ID = req.UserID
	creator.EstimatedFare = fare
	creator.JoinedAt = s.now()

	pool := &models.Pool{
		ID:            "pool_" + uuid.NewString(),
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		Members:       []models.PoolMember{creator},
		MaxMembers:    req.MaxMembers,
		TotalFare:     fare * req.MaxMembers,
		FarePerPerson: fare,
		MeetingPoint:  meeting,
		Status:        models.PoolForming,
		CreatedBy:     req.UserID,
		CreatedAt:     s.now(),
		Version:       1,
	}
	if err := s.Store.Put(pool); err != nil {
		return nil, err
	}

	observability.PoolsCreated.Inc()
	s.Broadcast.Emit(broadcast.EvNewPoolCreated, pool)
	s.Broadcast.EmitRoom(broadcast.PoolRoom(pool.Destination), broadcast.EvPoolMatch, pool)
	return pool, nil
}

func (s *Service) Join(poolID, userID string, profile models.PoolMember) (*models.Pool, error) {
	if poolID == "" || userID == "" {
		return nil, &ValidationError{Fields: missingOf(poolID == "", "poolId", userID == "", "userId")}
	}
	pool, ok := s.Store.Get(poolID)
	if !ok {
		return nil, ErrPoolNotFound
	}
	if len(pool.Members) >= pool.MaxMembers {
		return nil, ErrPoolFull
	}
	for _, m := range pool.Members {
		if m.ID == userID {
			return nil, ErrAlreadyMember
		}
	}

	member := profile
	member.ID = userID
	member.EstimatedFare = pool.FarePerPerson
	member.JoinedAt = s.now()
	pool.Members = append(pool.Members, member)

	if len(pool.Members) == pool.MaxMembers {
		pool.Status = models.PoolConfirmed
		pool.ConfirmedAt = s.now()
		pool.Vehicle = s.assignVehicle()
		observability.PoolsConfirmed.Inc()
	}
	pool.Version++
	if err := s.Store.Put(pool); err != nil {
		return nil, err
	}

	s.Broadcast.Emit(broadcast.EvPoolUpdated, pool)
	return pool, nil
}

func (s *Service) Leave(poolID, userID, reason string) (*models.Pool, error) {
	if poolID == "" || userID == "" {
		return nil, &ValidationError{Fields: missingOf(poolID == "", "poolId", userID == "", "userId")}
	}
	pool, ok := s.Store.Get(poolID)
	if !ok {
		return nil, ErrPoolNotFound
	}
	idx := -1
	for i, m := range pool.Members {
		if m.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotAMember
	}
	pool.Members = append(pool.Members[:idx], pool.Members[idx+1:]...)

	if pool.CreatedBy == userID || len(pool.Members) == 0 {
		pool.Status = models.PoolCancelled
		pool.CancelledAt = s.now()
		if reason == "" {
			reason = "Creator left"
		}
		pool.CancelReason = reason
		pool.Version++
		// cancelled pools leave the active set entirely; no record kept
		if err := s.Store.Delete(pool.ID); err != nil {
			return nil, err
		}
	} else {
		// totalFare stays fixed, so per-person cost drifts upward as members
		// leave; kept as-is rather than rescaling
		pool.FarePerPerson = ceilDiv(pool.TotalFare, len(pool.Members))
		pool.Version++
		if err := s.Store.Put(pool); err != nil {
			return nil, err
		}
	}

	s.Broadcast.Emit(broadcast.EvPoolUpdated, pool)
	return pool, nil
}

// ListAvailable yields pools open to joiners (forming or confirmed) whose
// destination contains the filter, case-insensitively. The sequence is
// restartable; result sets are small enough that no cursor is needed.
func (s *Service) ListAvailable(destinationFilter string) iter.Seq[*models.Pool] {
	filter := strings.ToLower(destinationFilter)
	return func(yield func(*models.Pool) bool) {
		for _, p := range s.Store.List() {
			if p.Status != models.PoolForming && p.Status != models.PoolConfirmed {
				continue
			}
			if filter != "" && !strings.Contains(strings.ToLower(p.Destination), filter) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// UserPools returns the active pools the user is currently a member of.
func (s *Service) UserPools(userID string) []*models.Pool {
	var out []*models.Pool
	for _, p := range s.Store.List() {
		for _, m := range p.Members {
			if m.ID == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Depart moves a confirmed pool into transit.
func (s *Service) Depart(poolID string) (*models.Pool, error) {
	return s.transition(poolID, models.PoolConfirmed, models.PoolInTransit, false)
}

// Complete finishes an in-transit pool and drops it from the active set.
func (s *Service) Complete(poolID string) (*models.Pool, error) {
	return s.transition(poolID, models.PoolInTransit, models.PoolCompleted, true)
}

func (s *Service) transition(poolID string, from, to models.PoolStatus, remove bool) (*models.Pool, error) {
	pool, ok := s.Store.Get(poolID)
	if !ok {
		return nil, ErrPoolNotFound
	}
	if pool.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, pool.Status, to)
	}
	pool.Status = to
	pool.Version++
	if remove {
		if err := s.Store.Delete(pool.ID); err != nil {
			return nil, err
		}
	} else if err := s.Store.Put(pool); err != nil {
		return nil, err
	}
	s.Broadcast.Emit(broadcast.EvPoolUpdated, pool)
	return pool, nil
}

// Rate records a pool experience rating, clamped to 1..5.
func (s *Service) Rate(poolID, userID string, rating int, feedback string, ratedMembers []string) (*Rating, error) {
	var missing []string
	if poolID == "" {
		missing = append(missing, "poolId")
	}
	if userID == "" {
		missing = append(missing, "userId")
	}
	if rating == 0 {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	r := Rating{
		PoolID:       poolID,
		RatedBy:      userID,
		Rating:       rating,
		Feedback:     feedback,
		RatedMembers: ratedMembers,
		Timestamp:    s.now(),
	}
	s.mu.Lock()
	s.ratings = append(s.ratings, r)
	s.mu.Unlock()
	return &r, nil
}

func (s *Service) assignVehicle() *models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.Vehicle{
		Type:   "auto",
		Model:  "Bajaj RE",
		Number: fmt.Sprintf("KA%d%dMZ%04d", s.rng.Intn(10), s.rng.Intn(10), s.rng.Intn(10000)),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func missingOf(cond1 bool, name1 string, cond2 bool, name2 string) []string {
	var out []string
	if cond1 {
		out = append(out, name1)
	}
	if cond2 {
		out = append(out, name2)
	}
	return out
}
