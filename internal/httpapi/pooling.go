package httpapi

import (
	"net/http"
	"slices"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/models"
	"github.com/example/omnipath/internal/pooling"
)

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	pools := slices.Collect(s.deps.Pools.ListAvailable(destination))
	if pools == nil {
		pools = []*models.Pool{}
	}
	writeOK(w, map[string]any{"pools": pools, "count": len(pools)})
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	var req pooling.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &pooling.ValidationError{Fields: []string{"body"}})
		return
	}
	pool, err := s.deps.Pools.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"pool": pool, "message": "Pool created successfully"})
}

func (s *Server) handleJoinPool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PoolID      string            `json:"poolId"`
		UserID      string            `json:"userId"`
		UserProfile models.PoolMember `json:"userProfile"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &pooling.ValidationError{Fields: []string{"body"}})
		return
	}
	pool, err := s.deps.Pools.Join(req.PoolID, req.UserID, req.UserProfile)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "Successfully joined pool"
	if pool.Status == models.PoolConfirmed {
		msg = "Pool confirmed! Vehicle assigned."
	}
	writeOK(w, map[string]any{"pool": pool, "message": msg})
}

func (s *Server) handleLeavePool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PoolID string `json:"poolId"`
		UserID string `json:"userId"`
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &pooling.ValidationError{Fields: []string{"body"}})
		return
	}
	pool, err := s.deps.Pools.Leave(req.PoolID, req.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "Successfully left pool"
	if pool.Status == models.PoolCancelled {
		msg = "Pool cancelled"
	}
	writeOK(w, map[string]any{"pool": pool, "message": msg})
}

func (s *Server) handleUserPools(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	active := s.deps.Pools.UserPools(userID)
	if active == nil {
		active = []*models.Pool{}
	}
	writeOK(w, map[string]any{"activePools": active, "count": len(active)})
}

func (s *Server) handleRatePool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PoolID       string   `json:"poolId"`
		UserID       string   `json:"userId"`
		Rating       int      `json:"rating"`
		Feedback     string   `json:"feedback"`
		RatedMembers []string `json:"ratedMembers"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, &pooling.ValidationError{Fields: []string{"body"}})
		return
	}
	rating, err := s.deps.Pools.Rate(req.PoolID, req.UserID, req.Rating, req.Feedback, req.RatedMembers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"ratingData": rating, "message": "Rating submitted successfully"})
}

func (s *Server) handleDepartPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.deps.Pools.Depart(mux.Vars(r)["poolId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"pool": pool, "message": "Pool departed"})
}

func (s *Server) handleCompletePool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.deps.Pools.Complete(mux.Vars(r)["poolId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"pool": pool, "message": "Pool completed"})
}
