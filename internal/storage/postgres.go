package storage

import (
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"

	"github.com/example/omnipath/internal/models"
)

// PostgresPoolStore keeps the active pool set in a single table with the
// member list stored as JSON. Good enough for durability across restarts;
// nothing here needs relational queries.
type PostgresPoolStore struct {
	db *sql.DB
}

func NewPostgresPoolStore(dsn string) (*PostgresPoolStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresPoolStore{db: db}, nil
}

func (p *PostgresPoolStore) Get(id string) (*models.Pool, bool) {
	row := p.db.QueryRow(`SELECT data FROM pools WHERE id=$1`, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, false
	}
	var pool models.Pool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, false
	}
	return &pool, true
}

func (p *PostgresPoolStore) Put(pool *models.Pool) error {
	raw, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`INSERT INTO pools(id, destination, status, version, data)
		VALUES($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET destination=$2, status=$3, version=$4, data=$5`,
		pool.ID, pool.Destination, string(pool.Status), pool.Version, raw)
	return err
}

func (p *PostgresPoolStore) Delete(id string) error {
	_, err := p.db.Exec(`DELETE FROM pools WHERE id=$1`, id)
	return err
}

func (p *PostgresPoolStore) List() []*models.Pool {
	rows, err := p.db.Query(`SELECT data FROM pools ORDER BY id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.Pool
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var pool models.Pool
		if err := json.Unmarshal(raw, &pool); err != nil {
			continue
		}
		out = append(out, &pool)
	}
	return out
}

func (p *PostgresPoolStore) Close() error {
	if p.db == nil {
		return errors.New("store not open")
	}
	return p.db.Close()
}
