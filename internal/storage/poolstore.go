package storage

import "github.com/example/omnipath/internal/models"

// PoolStore defines persistence operations for ride-share pools.
// The in-memory store is the default; Postgres can be swapped in via PG_DSN.
type PoolStore interface {
	Get(id string) (*models.Pool, bool)
	Put(p *models.Pool) error
	Delete(id string) error
	List() []*models.Pool
}
