package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/crowd"
)

func (s *Server) handleCrowdCurrent(w http.ResponseWriter, r *http.Request) {
	sample, err := s.deps.Crowd.GetCurrent(mux.Vars(r)["stationId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"crowdData": sample})
}

func (s *Server) handleCrowdReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StationID       string `json:"stationId"`
		CrowdPercentage *int   `json:"crowdPercentage"`
		SeatProbability *int   `json:"seatProbability"`
		UserLocation    any    `json:"userLocation"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, crowd.ErrMissingCrowd)
		return
	}
	if req.CrowdPercentage == nil {
		writeError(w, crowd.ErrMissingCrowd)
		return
	}
	sample, err := s.deps.Crowd.Report(req.StationID, *req.CrowdPercentage, req.SeatProbability)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"crowdData": sample, "message": "Crowd data updated successfully"})
}

func (s *Server) handleCrowdAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.deps.Crowd.AnalyticsFor(mux.Vars(r)["stationId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"analytics": analytics})
}
