package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/sos"
)

func (s *Server) handleSOSActivate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string           `json:"userId"`
		Location *models.Location `json:"location"`
		Type     string           `json:"type"`
		Message  string           `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil || req.Location == nil {
		writeError(w, sos.ErrMissingFields)
		return
	}
	c, err := s.deps.SOS.Activate(req.UserID, *req.Location, req.Type, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"sosCase":           c,
		"emergencyContacts": sos.DefaultContacts,
		"message":           "SOS alert activated - help is on the way",
	})
}

func (s *Server) handleSOSDeactivate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SOSID  string `json:"sosId"`
		UserID string `json:"userId"`
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, sos.ErrMissingFields)
		return
	}
	c, err := s.deps.SOS.Deactivate(req.SOSID, req.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"sosCase": c, "message": "SOS alert deactivated successfully"})
}

func (s *Server) handleSOSActive(w http.ResponseWriter, r *http.Request) {
	cases := s.deps.SOS.ActiveForUser(mux.Vars(r)["userId"])
	writeOK(w, map[string]any{"cases": cases, "count": len(cases)})
}

func (s *Server) handleSOSUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SOSID    string           `json:"sosId"`
		Location *models.Location `json:"location"`
	}
	if err := decodeBody(r, &req); err != nil || req.Location == nil {
		writeError(w, sos.ErrMissingFields)
		return
	}
	loc, err := s.deps.SOS.UpdateLocation(req.SOSID, *req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"location": loc, "message": "Location updated successfully"})
}

func (s *Server) handleSOSContacts(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"contacts": sos.DefaultContacts})
}

func (s *Server) handleSOSSilentAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID           string           `json:"userId"`
		Location         *models.Location `json:"location"`
		Route            any              `json:"route"`
		EstimatedArrival string           `json:"estimatedArrival"`
	}
	if err := decodeBody(r, &req); err != nil || req.Location == nil {
		writeError(w, sos.ErrMissingFields)
		return
	}
	alert, err := s.deps.SOS.CreateSilentAlert(req.UserID, *req.Location, req.Route, req.EstimatedArrival)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"silentAlert": alert, "message": "Silent monitoring activated"})
}
