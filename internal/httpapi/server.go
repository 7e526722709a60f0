package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/crowd"
	"github.com/example/omnipath/internal/karma"
	"github.com/example/omnipath/internal/payments"
	"github.com/example/omnipath/internal/pooling"
	"github.com/example/omnipath/internal/routesvc"
	"github.com/example/omnipath/internal/sos"
	"github.com/example/omnipath/internal/stations"
	"github.com/example/omnipath/internal/weather"
)

// Deps are the wired collaborators the server routes requests to.
type Deps struct {
	Pools    *pooling.Service
	Crowd    *crowd.Aggregator
	Weather  *weather.Service
	SOS      *sos.Service
	Karma    *karma.Service
	Payments *payments.Service
	Planner  routesvc.Planner
	Stations *stations.Directory
	Hub      *broadcast.Hub
}

type Server struct {
	deps    Deps
	logger  *slog.Logger
	mux     *mux.Router
	started time.Time
}

func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{deps: deps, logger: logger, mux: mux.NewRouter(), started: time.Now()}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws", s.handleWS)

	api := s.mux.PathPrefix("/api").Subrouter()

	api.HandleFunc("/pooling/pools", s.handleListPools).Methods("GET")
	api.HandleFunc("/pooling/create", s.handleCreatePool).Methods("POST")
	api.HandleFunc("/pooling/join", s.handleJoinPool).Methods("POST")
	api.HandleFunc("/pooling/leave", s.handleLeavePool).Methods("POST")
	api.HandleFunc("/pooling/rate", s.handleRatePool).Methods("POST")
	api.HandleFunc("/pooling/user/{userId}", s.handleUserPools).Methods("GET")
	api.HandleFunc("/pooling/{poolId}/depart", s.handleDepartPool).Methods("POST")
	api.HandleFunc("/pooling/{poolId}/complete", s.handleCompletePool).Methods("POST")

	api.HandleFunc("/crowd/report", s.handleCrowdReport).Methods("POST")
	api.HandleFunc("/crowd/analytics/{stationId}", s.handleCrowdAnalytics).Methods("GET")
	api.HandleFunc("/crowd/{stationId}", s.handleCrowdCurrent).Methods("GET")

	api.HandleFunc("/weather/current", s.handleWeatherCurrent).Methods("GET")
	api.HandleFunc("/weather/alerts", s.handleWeatherAlerts).Methods("GET")
	api.HandleFunc("/weather/alerts", s.handleCreateWeatherAlert).Methods("POST")
	api.HandleFunc("/weather/forecast", s.handleWeatherForecast).Methods("GET")
	api.HandleFunc("/weather/report", s.handleWeatherReport).Methods("POST")

	api.HandleFunc("/sos/activate", s.handleSOSActivate).Methods("POST")
	api.HandleFunc("/sos/deactivate", s.handleSOSDeactivate).Methods("POST")
	api.HandleFunc("/sos/update-location", s.handleSOSUpdateLocation).Methods("POST")
	api.HandleFunc("/sos/silent-alert", s.handleSOSSilentAlert).Methods("POST")
	api.HandleFunc("/sos/active/{userId}", s.handleSOSActive).Methods("GET")
	api.HandleFunc("/sos/emergency-contacts", s.handleSOSContacts).Methods("GET")

	api.HandleFunc("/karma/add-points", s.handleKarmaAddPoints).Methods("POST")
	api.HandleFunc("/karma/{userId}/achievements", s.handleKarmaAchievements).Methods("GET")
	api.HandleFunc("/karma/{userId}/rewards", s.handleKarmaRewards).Methods("GET")
	api.HandleFunc("/karma/{userId}/redeem", s.handleKarmaRedeem).Methods("POST")
	api.HandleFunc("/karma/{userId}/impact", s.handleKarmaImpact).Methods("GET")
	api.HandleFunc("/karma/{userId}", s.handleKarmaGet).Methods("GET")

	api.HandleFunc("/payments/methods", s.handlePaymentMethods).Methods("GET")
	api.HandleFunc("/payments/generate-qr", s.handleGenerateQR).Methods("POST")
	api.HandleFunc("/payments/process", s.handleProcessPayment).Methods("POST")
	api.HandleFunc("/payments/history/{userId}", s.handlePaymentHistory).Methods("GET")
	api.HandleFunc("/payments/wallet/{userId}", s.handleWalletBalance).Methods("GET")

	api.HandleFunc("/routes", s.handleRoutes).Methods("GET")
	api.HandleFunc("/routes/optimize", s.handleOptimizeRoute).Methods("POST")

	api.HandleFunc("/stations", s.handleListStations).Methods("GET")
	api.HandleFunc("/stations/{id}/amenities/{amenity}/vote", s.handleAmenityVote).Methods("POST")
	api.HandleFunc("/stations/{id}", s.handleGetStation).Methods("GET")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Seconds(),
	})
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
