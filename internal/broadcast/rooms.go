package broadcast

import (
	"fmt"
	"math"
)

// Client event names accepted on the realtime channel.
const (
	EvJoinLocation = "join-location"
	EvCrowdReport  = "crowd-report"
	EvWeatherAlert = "weather-alert"
	EvSOSAlert     = "sos-alert"
	EvPoolRequest  = "pool-request"
)

// Server event names pushed to clients.
const (
	EvCrowdUpdate       = "crowd-update"
	EvWeatherUpdate     = "weather-update"
	EvEmergencyAlert    = "emergency-alert"
	EvPoolMatch         = "pool-match"
	EvNewPoolCreated    = "new-pool-created"
	EvPoolUpdated       = "pool-updated"
	EvEmergencyResolved = "emergency-resolved"
	EvEmergencyLocation = "emergency-location-update"
)

// LocationRoom maps a coordinate onto a coarse two-decimal-degree grid
// cell, so nearby clients share a room (~1.1km at the equator).
func LocationRoom(lat, lng float64) string {
	return fmt.Sprintf("location_%d_%d", int(math.Floor(lat*100)), int(math.Floor(lng*100)))
}

// PoolRoom scopes pool-match notifications to one destination.
func PoolRoom(destination string) string {
	return "pool_" + destination
}
