package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/omnipath/internal/weather"
)

func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	lat, _ := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, _ := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	conditions := s.deps.Weather.Provider.Current(lat, lng)
	writeOK(w, map[string]any{
		"weather":  conditions,
		"location": map[string]float64{"lat": lat, "lng": lng},
	})
}

func (s *Server) handleWeatherAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.deps.Weather.ActiveAlerts()
	writeOK(w, map[string]any{"alerts": alerts, "count": len(alerts)})
}

func (s *Server) handleCreateWeatherAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type          string   `json:"type"`
		Severity      string   `json:"severity"`
		Message       string   `json:"message"`
		AffectedAreas []string `json:"affectedAreas"`
		Duration      int64    `json:"duration"` // milliseconds
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, weather.ErrMissingFields)
		return
	}
	alert, err := s.deps.Weather.CreateAlert(req.Type, req.Severity, req.Message, req.AffectedAreas, time.Duration(req.Duration)*time.Millisecond)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"alert": alert, "message": "Weather alert created successfully"})
}

func (s *Server) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	forecast := s.deps.Weather.Provider.Forecast(hours)
	writeOK(w, map[string]any{"forecast": forecast, "generatedAt": time.Now()})
}

func (s *Server) handleWeatherReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Condition string            `json:"condition"`
		Location  *weather.Location `json:"location"`
		Severity  string            `json:"severity"`
		UserID    string            `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, weather.ErrMissingFields)
		return
	}
	report, err := s.deps.Weather.SubmitReport(req.Condition, req.Location, req.Severity, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"report": report, "message": "Weather report submitted successfully"})
}
