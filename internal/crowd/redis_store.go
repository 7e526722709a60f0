package crowd

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/omnipath/internal/models"
)

// RedisStore keeps crowd samples in one hash per station so that the API
// server and the ingest consumer share the same view.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(addr, password string) *RedisStore {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisStore{client: c, ctx: context.Background()}
}

// NewRedisStoreFromClient wires an existing client; used by tests.
func NewRedisStoreFromClient(c *redis.Client) *RedisStore {
	return &RedisStore{client: c, ctx: context.Background()}
}

func (r *RedisStore) Get(stationID string) (*models.CrowdSample, bool) {
	m, err := r.client.HGetAll(r.ctx, sampleKey(stationID)).Result()
	if err != nil || len(m) == 0 {
		return nil, false
	}
	s := &models.CrowdSample{StationID: stationID}
	if v, ok := m["crowdPercentage"]; ok {
		s.CrowdPercentage, _ = strconv.Atoi(v)
	}
	if v, ok := m["seatProbability"]; ok {
		s.SeatProbability, _ = strconv.Atoi(v)
	}
	if v, ok := m["reports"]; ok {
		s.Reports, _ = strconv.Atoi(v)
	}
	if v, ok := m["lastUpdated"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			s.LastUpdated = t
		}
	}
	if v, ok := m["contributors"]; ok && v != "" {
		_ = json.Unmarshal([]byte(v), &s.Contributors)
	}
	return s, true
}

func (r *RedisStore) Put(sample *models.CrowdSample) error {
	contributors, err := json.Marshal(sample.Contributors)
	if err != nil {
		return err
	}
	return r.client.HSet(r.ctx, sampleKey(sample.StationID), map[string]interface{}{
		"crowdPercentage": strconv.Itoa(sample.CrowdPercentage),
		"seatProbability": strconv.Itoa(sample.SeatProbability),
		"reports":         strconv.Itoa(sample.Reports),
		"lastUpdated":     sample.LastUpdated.Format(time.RFC3339Nano),
		"contributors":    string(contributors),
	}).Err()
}

func sampleKey(stationID string) string { return "crowd:sample:" + stationID }
