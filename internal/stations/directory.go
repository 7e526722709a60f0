package stations

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/omnipath/internal/models"
)

var (
	ErrStationNotFound = errors.New("station not found")
	ErrAmenityNotFound = errors.New("amenity not found")
	ErrInvalidVote     = errors.New("invalid vote type")
)

// voteFlipThreshold is the total vote count at which the working flag
// starts following the majority.
const voteFlipThreshold = 5

// Directory is the in-memory station catalogue with crowd-sourced
// amenity status voting.
type Directory struct {
	mu       sync.RWMutex
	stations map[string]*models.Station
	order    []string
	now      func() time.Time
}

func NewDirectory() *Directory {
	d := &Directory{stations: make(map[string]*models.Station), now: time.Now}
	for _, s := range seedStations(d.now()) {
		d.stations[s.ID] = s
		d.order = append(d.order, s.ID)
	}
	return d
}

// List returns stations matching the optional name search and filter
// (accessible, nearby). Nearby sorts by haversine distance to the given
// point and keeps the closest two.
func (d *Directory) List(search, filter string, at *models.Coord) []*models.Station {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*models.Station, 0, len(d.order))
	for _, id := range d.order {
		s := d.stations[id]
		if search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			continue
		}
		if filter == "accessible" && s.AccessibilityScore < 90 {
			continue
		}
		out = append(out, cloneStation(s))
	}
	if filter == "nearby" {
		if at != nil {
			sort.SliceStable(out, func(i, j int) bool {
				return haversine(at.Lat, at.Lng, out[i].Coordinates.Lat, out[i].Coordinates.Lng) <
					haversine(at.Lat, at.Lng, out[j].Coordinates.Lat, out[j].Coordinates.Lng)
			})
		}
		if len(out) > 2 {
			out = out[:2]
		}
	}
	return out
}

func (d *Directory) Get(id string) (*models.Station, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.stations[id]
	if !ok {
		return nil, ErrStationNotFound
	}
	return cloneStation(s), nil
}

// Vote records an up/down vote on an amenity. Once five or more votes are
// in, the working flag follows the majority.
func (d *Directory) Vote(stationID, amenity, vote string) (*models.Amenity, error) {
	if vote != "up" && vote != "down" {
		return nil, ErrInvalidVote
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stations[stationID]
	if !ok {
		return nil, ErrStationNotFound
	}
	a, ok := s.Amenities[amenity]
	if !ok {
		return nil, ErrAmenityNotFound
	}
	if vote == "up" {
		a.Votes.Up++
	} else {
		a.Votes.Down++
	}
	a.LastUpdated = d.now()
	if a.Votes.Up+a.Votes.Down >= voteFlipThreshold {
		a.Working = a.Votes.Up > a.Votes.Down
	}
	s.Amenities[amenity] = a
	cp := a
	return &cp, nil
}

func cloneStation(s *models.Station) *models.Station {
	cp := *s
	cp.Amenities = make(map[string]models.Amenity, len(s.Amenities))
	for k, v := range s.Amenities {
		cp.Amenities[k] = v
	}
	return &cp
}

// haversine distance in meters
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const R = 6371000.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

func seedStations(now time.Time) []*models.Station {
	return []*models.Station{
		{
			ID: "central_station", Name: "Central Station", Line: "Blue Line",
			Coordinates: models.Coord{Lat: 12.9716, Lng: 77.5946},
			Amenities: map[string]models.Amenity{
				"atm":      {Working: true, LastUpdated: now.Add(-5 * time.Minute), Votes: models.AmenityVotes{Up: 15, Down: 2}},
				"restroom": {Working: true, LastUpdated: now.Add(-10 * time.Minute), Votes: models.AmenityVotes{Up: 23, Down: 1}},
				"food":     {Working: true, LastUpdated: now.Add(-15 * time.Minute), Votes: models.AmenityVotes{Up: 45, Down: 3}},
				"water":    {Working: true, LastUpdated: now.Add(-20 * time.Minute), Votes: models.AmenityVotes{Up: 12, Down: 1}},
				"wifi":     {Working: true, LastUpdated: now.Add(-3 * time.Minute), Votes: models.AmenityVotes{Up: 34, Down: 5}},
			},
			CrowdLevel: 65, AccessibilityScore: 90,
		},
		{
			ID: "tech_park_metro", Name: "Tech Park Metro", Line: "Green Line",
			Coordinates: models.Coord{Lat: 12.9352, Lng: 77.6245},
			Amenities: map[string]models.Amenity{
				"atm":      {Working: false, LastUpdated: now.Add(-2 * time.Hour), Votes: models.AmenityVotes{Up: 2, Down: 12}},
				"restroom": {Working: true, LastUpdated: now.Add(-time.Hour), Votes: models.AmenityVotes{Up: 8, Down: 1}},
				"food":     {Working: true, LastUpdated: now.Add(-30 * time.Minute), Votes: models.AmenityVotes{Up: 15, Down: 0}},
				"water":    {Working: false, LastUpdated: now.Add(-90 * time.Minute), Votes: models.AmenityVotes{Up: 3, Down: 8}},
			},
			CrowdLevel: 45, AccessibilityScore: 75,
		},
		{
			ID: "university_junction", Name: "University Junction", Line: "Red Line",
			Coordinates: models.Coord{Lat: 12.9279, Lng: 77.6271},
			Amenities: map[string]models.Amenity{
				"atm":           {Working: true, LastUpdated: now.Add(-30 * time.Minute), Votes: models.AmenityVotes{Up: 18, Down: 3}},
				"restroom":      {Working: true, LastUpdated: now.Add(-15 * time.Minute), Votes: models.AmenityVotes{Up: 25, Down: 0}},
				"food":          {Working: true, LastUpdated: now.Add(-10 * time.Minute), Votes: models.AmenityVotes{Up: 12, Down: 1}},
				"water":         {Working: true, LastUpdated: now.Add(-30 * time.Minute), Votes: models.AmenityVotes{Up: 16, Down: 2}},
				"accessibility": {Working: true, LastUpdated: now.Add(-20 * time.Minute), Votes: models.AmenityVotes{Up: 22, Down: 0}},
			},
			CrowdLevel: 80, AccessibilityScore: 95,
		},
	}
}
