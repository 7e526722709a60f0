package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/stations"
)

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var at *models.Coord
	if latStr, lngStr := q.Get("lat"), q.Get("lng"); latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			at = &models.Coord{Lat: lat, Lng: lng}
		}
	}
	list := s.deps.Stations.List(q.Get("search"), q.Get("filter"), at)
	writeOK(w, map[string]any{"stations": list, "count": len(list)})
}

func (s *Server) handleGetStation(w http.ResponseWriter, r *http.Request) {
	station, err := s.deps.Stations.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"station": station})
}

func (s *Server) handleAmenityVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vote string `json:"vote"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, stations.ErrInvalidVote)
		return
	}
	vars := mux.Vars(r)
	amenity, err := s.deps.Stations.Vote(vars["id"], vars["amenity"], req.Vote)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"amenity": amenity, "message": "Vote recorded successfully"})
}
