package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/observability"
)

var upgrader = websocket.Upgrader{
	// the demo API is unauthenticated; allow any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with the error
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	id := newID()
	s.deps.Hub.Add(id, conn)
	observability.WSSessions.Inc()
	s.logger.Info("ws connected", "session_id", id)

	go s.readLoop(id, conn)
}

// readLoop dispatches inbound client events until the connection drops.
func (s *Server) readLoop(id string, conn *websocket.Conn) {
	defer func() {
		s.deps.Hub.Remove(id)
		observability.WSSessions.Dec()
		s.logger.Info("ws disconnected", "session_id", id)
	}()

	for {
		var ev broadcast.Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		s.dispatchClientEvent(id, ev)
	}
}

func (s *Server) dispatchClientEvent(id string, ev broadcast.Event) {
	switch ev.Event {
	case broadcast.EvJoinLocation:
		var loc struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		if !decodeEventData(ev.Data, &loc) {
			return
		}
		room := broadcast.LocationRoom(loc.Lat, loc.Lng)
		s.deps.Hub.Join(id, room)
		s.logger.Info("ws joined location room", "session_id", id, "room", room)

	case broadcast.EvCrowdReport:
		var report struct {
			StationID string `json:"stationId"`
		}
		if !decodeEventData(ev.Data, &report) || report.StationID == "" {
			return
		}
		s.deps.Hub.EmitRoom(report.StationID, broadcast.EvCrowdUpdate, ev.Data)

	case broadcast.EvWeatherAlert:
		s.deps.Hub.Emit(broadcast.EvWeatherUpdate, ev.Data)

	case broadcast.EvSOSAlert:
		payload := map[string]any{"timestamp": time.Now().UnixMilli()}
		var original map[string]any
		if decodeEventData(ev.Data, &original) {
			for k, v := range original {
				if k != "timestamp" {
					payload[k] = v
				}
			}
		}
		s.deps.Hub.Emit(broadcast.EvEmergencyAlert, payload)

	case broadcast.EvPoolRequest:
		var req struct {
			Destination string `json:"destination"`
		}
		if !decodeEventData(ev.Data, &req) || req.Destination == "" {
			return
		}
		s.deps.Hub.EmitRoom(broadcast.PoolRoom(req.Destination), broadcast.EvPoolMatch, ev.Data)
	}
}

// decodeEventData reshapes the loosely-typed event payload into dst.
func decodeEventData(data any, dst any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
