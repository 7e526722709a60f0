package models

import "time"

type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a Coord plus reading accuracy, used by SOS tracking.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type PoolStatus string

const (
	PoolForming   PoolStatus = "forming"
	PoolConfirmed PoolStatus = "confirmed"
	PoolInTransit PoolStatus = "in_transit"
	PoolCompleted PoolStatus = "completed"
	PoolCancelled PoolStatus = "cancelled"
)

type Vehicle struct {
	Type   string `json:"type"`
	Model  string `json:"model"`
	Number string `json:"number"`
}

type PoolMember struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	Rating            float64   `json:"rating,omitempty"`
	VerificationLevel int       `json:"verificationLevel,omitempty"`
	IsVerified        bool      `json:"isVerified,omitempty"`
	EstimatedFare     int       `json:"estimatedFare"`
	JoinedAt          time.Time `json:"joinedAt"`
}

// Pool is a candidate ride-share group. Member order is join order.
type Pool struct {
	ID            string       `json:"id"`
	Destination   string       `json:"destination"`
	DepartureTime string       `json:"departureTime"`
	Members       []PoolMember `json:"currentMembers"`
	MaxMembers    int          `json:"maxMembers"`
	TotalFare     int          `json:"totalFare"`
	FarePerPerson int          `json:"farePerPerson"`
	MeetingPoint  string       `json:"meetingPoint"`
	Vehicle       *Vehicle     `json:"vehicle"`
	Status        PoolStatus   `json:"status"`
	CreatedBy     string       `json:"createdBy"`
	CreatedAt     time.Time    `json:"createdAt"`
	ConfirmedAt   time.Time    `json:"confirmedAt,omitempty"`
	CancelledAt   time.Time    `json:"cancelledAt,omitempty"`
	CancelReason  string       `json:"cancelReason,omitempty"`
	Version       int64        `json:"version"`
}

// Contributor is one entry in a crowd sample's trailing report window.
type Contributor struct {
	Timestamp time.Time `json:"timestamp"`
	Accuracy  int       `json:"accuracy"`
}

type CrowdSample struct {
	StationID       string        `json:"stationId"`
	CrowdPercentage int           `json:"crowdPercentage"`
	SeatProbability int           `json:"seatProbability"`
	LastUpdated     time.Time     `json:"lastUpdated"`
	Reports         int           `json:"reports"`
	Contributors    []Contributor `json:"contributors,omitempty"`
}

type WeatherAlert struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`     // rain, flood, extreme_heat, storm
	Severity      string    `json:"severity"` // low, medium, high
	Message       string    `json:"message"`
	AffectedAreas []string  `json:"affectedAreas"`
	CreatedAt     time.Time `json:"timestamp"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type SOSStatus string

const (
	SOSActive   SOSStatus = "active"
	SOSResolved SOSStatus = "resolved"
)

type SOSUpdate struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
}

type SOSCase struct {
	ID               string      `json:"id"`
	UserID           string      `json:"userId"`
	Location         Location    `json:"location"`
	Type             string      `json:"type"` // emergency, medical, security, harassment
	Message          string      `json:"message"`
	Status           SOSStatus   `json:"status"`
	Priority         string      `json:"priority"`
	ActivatedAt      time.Time   `json:"activatedAt"`
	ResolvedAt       time.Time   `json:"resolvedAt,omitempty"`
	ResolutionReason string      `json:"resolutionReason,omitempty"`
	Updates          []SOSUpdate `json:"updates"`
}

type AmenityVotes struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

type Amenity struct {
	Working     bool         `json:"working"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Votes       AmenityVotes `json:"votes"`
}

type Station struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Line               string             `json:"line"`
	Coordinates        Coord              `json:"coordinates"`
	Amenities          map[string]Amenity `json:"amenities"`
	CrowdLevel         int                `json:"crowdLevel"`
	AccessibilityScore int                `json:"accessibilityScore"`
}

type RouteOption struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	From                  string   `json:"from"`
	To                    string   `json:"to"`
	Duration              int      `json:"duration"` // minutes
	Distance              float64  `json:"distance"` // km
	CongestionScore       int      `json:"congestionScore"`
	WeatherRisk           int      `json:"weatherRisk"`
	AccessibilityFriendly bool     `json:"accessibilityFriendly"`
	CarbonFootprint       float64  `json:"carbonFootprint"`
	Cost                  int      `json:"cost"`
	Changes               int      `json:"changes"`
	Modes                 []string `json:"modes"`
	Highlights            []string `json:"highlights"`
	Warnings              []string `json:"warnings"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
)

type Payment struct {
	ID            string        `json:"paymentId"`
	Merchant      string        `json:"merchant"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"timestamp"`
	ExpiresAt     time.Time     `json:"expiresAt"`
	ProcessedAt   time.Time     `json:"processedAt,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
	FailureReason string        `json:"failureReason,omitempty"`
}

type KarmaLevel struct {
	Current      int    `json:"current"`
	Name         string `json:"name"`
	NextLevel    int    `json:"nextLevel"`
	PointsToNext int    `json:"pointsToNext"`
}

type Karma struct {
	UserID           string     `json:"userId"`
	CommutePoints    int        `json:"commuteKarmaPoints"`
	GreenPoints      int        `json:"greenPoints"`
	TotalCarbonSaved float64    `json:"totalCarbonSaved"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	TotalTrips       int        `json:"totalTrips"`
	LastActivityDay  string     `json:"-"`
	Level            KarmaLevel `json:"level"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
