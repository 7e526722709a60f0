package crowd

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/example/omnipath/internal/models"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)

	updated := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	in := &models.CrowdSample{
		StationID:       "central_station",
		CrowdPercentage: 72,
		SeatProbability: 28,
		LastUpdated:     updated,
		Reports:         3,
		Contributors: []models.Contributor{
			{Timestamp: updated, Accuracy: 85},
		},
	}
	if err := store.Put(in); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, ok := store.Get("central_station")
	if !ok {
		t.Fatal("expected sample back")
	}
	if out.CrowdPercentage != 72 || out.SeatProbability != 28 || out.Reports != 3 {
		t.Fatalf("fields lost: %+v", out)
	}
	if !out.LastUpdated.Equal(updated) {
		t.Fatalf("lastUpdated mismatch: %v", out.LastUpdated)
	}
	if len(out.Contributors) != 1 || out.Contributors[0].Accuracy != 85 {
		t.Fatalf("contributors lost: %+v", out.Contributors)
	}
}

func TestRedisStoreMiss(t *testing.T) {
	store := newTestRedisStore(t)
	if _, ok := store.Get("nowhere"); ok {
		t.Fatal("expected miss")
	}
}

func TestRedisStoreOverwrite(t *testing.T) {
	store := newTestRedisStore(t)
	store.Put(&models.CrowdSample{StationID: "s", CrowdPercentage: 10, LastUpdated: time.Now()})
	store.Put(&models.CrowdSample{StationID: "s", CrowdPercentage: 90, Reports: 2, LastUpdated: time.Now()})

	out, ok := store.Get("s")
	if !ok || out.CrowdPercentage != 90 || out.Reports != 2 {
		t.Fatalf("overwrite lost: %+v", out)
	}
}

func TestRedisStoreBacksAggregator(t *testing.T) {
	a := NewAggregator(newTestRedisStore(t), nil)
	if _, err := a.Report("s", 50, nil); err != nil {
		t.Fatalf("report: %v", err)
	}
	sample, err := a.Report("s", 50, nil)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	// round(15*0.7 + 50*0.3) = round(25.5)
	if sample.CrowdPercentage != 26 {
		t.Fatalf("expected 26, got %d", sample.CrowdPercentage)
	}
	if sample.Reports != 2 {
		t.Fatalf("expected reports 2, got %d", sample.Reports)
	}
}
