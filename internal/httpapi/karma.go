package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/karma"
)

func (s *Server) handleKarmaGet(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"karma": s.deps.Karma.Get(mux.Vars(r)["userId"])})
}

func (s *Server) handleKarmaAddPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string  `json:"userId"`
		Activity    string  `json:"activity"`
		Points      int     `json:"points"`
		CarbonSaved float64 `json:"carbonSaved"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, karma.ErrMissingFields)
		return
	}
	ledger, unlocked, err := s.deps.Karma.AddPoints(req.UserID, req.Activity, req.Points, req.CarbonSaved)
	if err != nil {
		writeError(w, err)
		return
	}
	if unlocked == nil {
		unlocked = []karma.Achievement{}
	}
	writeOK(w, map[string]any{
		"karma":           ledger,
		"pointsAdded":     req.Points,
		"newAchievements": unlocked,
		"message":         fmt.Sprintf("Earned %d karma points for %s!", req.Points, req.Activity),
	})
}

func (s *Server) handleKarmaAchievements(w http.ResponseWriter, r *http.Request) {
	completed := s.deps.Karma.Achievements(mux.Vars(r)["userId"])
	if completed == nil {
		completed = []karma.Achievement{}
	}
	writeOK(w, map[string]any{"completed": completed})
}

func (s *Server) handleKarmaRewards(w http.ResponseWriter, r *http.Request) {
	rewards, balance := s.deps.Karma.Rewards(mux.Vars(r)["userId"])
	writeOK(w, map[string]any{"rewards": rewards, "userPoints": balance})
}

func (s *Server) handleKarmaRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RewardID string `json:"rewardId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, karma.ErrMissingFields)
		return
	}
	redemption, remaining, err := s.deps.Karma.Redeem(mux.Vars(r)["userId"], req.RewardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"redemption":      redemption,
		"remainingPoints": remaining,
		"message":         "Reward redeemed successfully!",
	})
}

func (s *Server) handleKarmaImpact(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"impact": s.deps.Karma.Impact(mux.Vars(r)["userId"])})
}
