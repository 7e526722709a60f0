package httpapi

import (
	"net/http"
	"time"

	"github.com/example/omnipath/internal/routesvc"
)

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	routes, err := s.deps.Planner.Plan(from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"routes": routes,
		"metadata": map[string]any{
			"searchTime":  time.Now(),
			"totalRoutes": len(routes),
			"from":        from,
			"to":          to,
		},
	})
}

func (s *Server) handleOptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RouteID           string `json:"routeId"`
		CurrentConditions any    `json:"currentConditions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, routesvc.ErrMissingEndpoints)
		return
	}
	optimized, err := s.deps.Planner.Optimize(req.RouteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"optimizedRoute": optimized, "timestamp": time.Now()})
}
