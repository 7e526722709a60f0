package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/omnipath/internal/broadcast"
	"github.com/example/omnipath/internal/crowd"
	"github.com/example/omnipath/internal/karma"
	"github.com/example/omnipath/internal/payments"
	"github.com/example/omnipath/internal/pooling"
	"github.com/example/omnipath/internal/routesvc"
	"github.com/example/omnipath/internal/sos"
	"github.com/example/omnipath/internal/stations"
	"github.com/example/omnipath/internal/storage"
	"github.com/example/omnipath/internal/weather"
)

type settleAll struct{}

func (settleAll) Charge(context.Context, float64, string, string) (string, error) {
	return "txn_test", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := broadcast.NewHub(nil)
	deps := Deps{
		Pools:    pooling.NewService(storage.NewMemoryPoolStore(), hub),
		Crowd:    crowd.NewAggregator(crowd.NewMemoryStore(), hub),
		Weather:  weather.NewService(hub, nil),
		SOS:      sos.NewService(hub),
		Karma:    karma.NewService(),
		Payments: payments.NewService(settleAll{}),
		Planner:  routesvc.NewRandomPlanner(),
		Stations: stations.NewDirectory(),
		Hub:      hub,
	}
	srv := httptest.NewServer(NewServer(deps, nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp, decodeResp(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	return resp, decodeResp(t, resp)
}

func decodeResp(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := getJSON(t, srv.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["status"] != "OK" {
		t.Fatalf("body wrong: %v", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestPoolLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/pooling/create", map[string]any{
		"destination":   "Tech Park Metro",
		"departureTime": "2026-09-01T08:30:00Z",
		"maxMembers":    2,
		"userId":        "creator",
		"estimatedFare": 50,
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("create failed: %d %v", resp.StatusCode, body)
	}
	pool := body["pool"].(map[string]any)
	poolID := pool["id"].(string)
	if pool["status"] != "forming" {
		t.Fatalf("expected forming, got %v", pool["status"])
	}

	resp, body = postJSON(t, srv.URL+"/api/pooling/join", map[string]any{
		"poolId": poolID,
		"userId": "rider",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join failed: %d %v", resp.StatusCode, body)
	}
	pool = body["pool"].(map[string]any)
	if pool["status"] != "confirmed" || pool["vehicle"] == nil {
		t.Fatalf("expected confirmed with vehicle: %v", pool)
	}
	if body["message"] != "Pool confirmed! Vehicle assigned." {
		t.Fatalf("message wrong: %v", body["message"])
	}

	// confirmed pools are listed as joinable
	resp, body = getJSON(t, srv.URL+"/api/pooling/pools?destination=tech")
	if resp.StatusCode != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("list wrong: %d %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, srv.URL+"/api/pooling/"+poolID+"/depart", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("depart failed: %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/api/pooling/"+poolID+"/complete", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete failed: %d", resp.StatusCode)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)

	// unknown pool -> 404
	resp, body := postJSON(t, srv.URL+"/api/pooling/join", map[string]any{
		"poolId": "pool_missing", "userId": "u",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body["error"] != "Not found" || body["message"] == "" {
		t.Fatalf("error envelope wrong: %v", body)
	}

	// missing fields -> 400
	resp, body = postJSON(t, srv.URL+"/api/pooling/create", map[string]any{"destination": "X"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Bad request" {
		t.Fatalf("error label wrong: %v", body)
	}
}

func TestCrowdEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/crowd/report", map[string]any{
		"stationId":       "central_station",
		"crowdPercentage": 80,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report failed: %d %v", resp.StatusCode, body)
	}
	data := body["crowdData"].(map[string]any)
	if data["crowdPercentage"].(float64) != 24 { // round(0*0.7 + 80*0.3)
		t.Fatalf("blend wrong: %v", data["crowdPercentage"])
	}

	// presence check: crowdPercentage of 0 is a valid reading
	resp, _ = postJSON(t, srv.URL+"/api/crowd/report", map[string]any{
		"stationId": "central_station", "crowdPercentage": 0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("zero reading rejected: %d", resp.StatusCode)
	}

	// absent crowdPercentage -> 400
	resp, _ = postJSON(t, srv.URL+"/api/crowd/report", map[string]any{"stationId": "central_station"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, body = getJSON(t, srv.URL+"/api/crowd/central_station")
	if resp.StatusCode != http.StatusOK || body["crowdData"] == nil {
		t.Fatalf("current failed: %d %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, srv.URL+"/api/crowd/analytics/central_station")
	if resp.StatusCode != http.StatusOK || body["analytics"] == nil {
		t.Fatalf("analytics failed: %d %v", resp.StatusCode, body)
	}
}

func TestStationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/stations?filter=accessible")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list failed: %d", resp.StatusCode)
	}
	if got := len(body["stations"].([]any)); got != 2 {
		t.Fatalf("expected 2 accessible stations, got %d", got)
	}

	resp, _ = postJSON(t, srv.URL+"/api/stations/central_station/amenities/atm/vote", map[string]any{"vote": "up"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vote failed: %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/api/stations/central_station/amenities/atm/vote", map[string]any{"vote": "sideways"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad vote, got %d", resp.StatusCode)
	}
	resp, _ = getJSON(t, srv.URL+"/api/stations/ghost")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSOSRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/sos/activate", map[string]any{
		"userId":   "u1",
		"location": map[string]any{"lat": 12.97, "lng": 77.59},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activate failed: %d %v", resp.StatusCode, body)
	}
	sosID := body["sosCase"].(map[string]any)["id"].(string)

	resp, body = getJSON(t, srv.URL+"/api/sos/active/u1")
	if resp.StatusCode != http.StatusOK || body["count"].(float64) != 1 {
		t.Fatalf("active list wrong: %d %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, srv.URL+"/api/sos/deactivate", map[string]any{
		"sosId": sosID, "userId": "u1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate failed: %d", resp.StatusCode)
	}

	resp, body = getJSON(t, srv.URL+"/api/sos/emergency-contacts")
	if resp.StatusCode != http.StatusOK || len(body["contacts"].([]any)) != 4 {
		t.Fatalf("contacts wrong: %d %v", resp.StatusCode, body)
	}
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/payments/generate-qr", map[string]any{
		"amount": 45, "method": "wallet",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate failed: %d %v", resp.StatusCode, body)
	}
	paymentID := body["paymentId"].(string)

	resp, body = postJSON(t, srv.URL+"/api/payments/process", map[string]any{
		"paymentId": paymentID, "method": "wallet", "amount": 45, "userId": "u1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("process failed: %d %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, srv.URL+"/api/payments/wallet/u1")
	if resp.StatusCode != http.StatusOK || body["balance"].(float64) != 955 {
		t.Fatalf("balance wrong: %d %v", resp.StatusCode, body)
	}

	resp, body = getJSON(t, srv.URL+"/api/payments/methods")
	if resp.StatusCode != http.StatusOK || len(body["methods"].([]any)) != 3 {
		t.Fatalf("methods wrong: %d %v", resp.StatusCode, body)
	}
}

func TestRoutesEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/routes?from=Central&to=Tech+Park")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("routes failed: %d %v", resp.StatusCode, body)
	}
	if got := len(body["routes"].([]any)); got != 3 {
		t.Fatalf("expected 3 routes, got %d", got)
	}
	resp, _ = getJSON(t, srv.URL+"/api/routes?from=Central")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without to, got %d", resp.StatusCode)
	}
}

func TestKarmaEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/karma/u1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get failed: %d %v", resp.StatusCode, body)
	}
	if body["karma"].(map[string]any)["commuteKarmaPoints"].(float64) != 850 {
		t.Fatalf("seed wrong: %v", body)
	}

	resp, body = postJSON(t, srv.URL+"/api/karma/add-points", map[string]any{
		"userId": "u2", "activity": "metro_trip", "points": 25, "carbonSaved": 2.5,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add failed: %d %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, srv.URL+"/api/karma/u3/redeem", map[string]any{"rewardId": "discount_20"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem failed: %d", resp.StatusCode)
	}
}

func TestWeatherEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/weather/current")
	if resp.StatusCode != http.StatusOK || body["weather"] == nil {
		t.Fatalf("current failed: %d %v", resp.StatusCode, body)
	}

	resp, _ = postJSON(t, srv.URL+"/api/weather/alerts", map[string]any{
		"type": "rain", "severity": "high", "message": "Heavy rain",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create alert failed: %d", resp.StatusCode)
	}
	resp, body = getJSON(t, srv.URL+"/api/weather/alerts")
	if resp.StatusCode != http.StatusOK || len(body["alerts"].([]any)) != 1 {
		t.Fatalf("alerts wrong: %d %v", resp.StatusCode, body)
	}
}

func TestWebSocketWeatherAlertRebroadcast(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(map[string]any{
		"event": broadcast.EvWeatherAlert,
		"data":  map[string]any{"type": "rain", "severity": "high"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	var ev broadcast.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Event != broadcast.EvWeatherUpdate {
		t.Fatalf("expected %s, got %s", broadcast.EvWeatherUpdate, ev.Event)
	}
	data := ev.Data.(map[string]any)
	if data["type"] != "rain" {
		t.Fatalf("payload lost: %v", ev.Data)
	}
}

func TestWebSocketJoinLocationRoom(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"event": broadcast.EvJoinLocation,
		"data":  map[string]any{"lat": 12.9716, "lng": 77.5946},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// the join is processed asynchronously; keep emitting to the room
	// until the subscribed session sees a frame
	hub := srv.Config.Handler.(*Server).deps.Hub
	room := broadcast.LocationRoom(12.9716, 77.5946)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				hub.EmitRoom(room, broadcast.EvWeatherUpdate, map[string]any{"type": "rain"})
				time.Sleep(20 * time.Millisecond)
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev broadcast.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Event != broadcast.EvWeatherUpdate {
		t.Fatalf("expected %s, got %s", broadcast.EvWeatherUpdate, ev.Event)
	}
}
