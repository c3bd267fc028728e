package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dramtune/dramtune/search"
)

// SQLiteCache persists fitness across runs. Entries are partitioned by scope so that results
// from different trace sets or simulator builds never mix.
type SQLiteCache struct {
	path  string
	scope string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteCache returns an unopened cache; call Init before use.
func NewSQLiteCache(path, scope string) *SQLiteCache {
	return &SQLiteCache{path: path, scope: scope}
}

// Init opens the database and creates the schema. It is a no-op when already open.
func (s *SQLiteCache) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// One connection serializes writers and avoids SQLITE_BUSY between pool connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Lookup implements search.Cache.
func (s *SQLiteCache) Lookup(ctx context.Context, g search.Genotype) (float64, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, false, err
	}

	var fitness sql.NullFloat64
	err = db.QueryRowContext(ctx, `
		SELECT fitness FROM fitness
		WHERE scope = ? AND address_mapping = ? AND mc_config = ? AND mem_spec = ? AND sim_config = ? AND clk_mhz = ?
	`, s.scope, g.AddressMapping, g.MCConfig, g.MemSpec, g.SimConfig, g.ClkMHz).Scan(&fitness)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup %s: %w", g, err)
	}
	if !fitness.Valid {
		return search.Failed, true, nil
	}
	return fitness.Float64, true, nil
}

// Store implements search.Cache. Failed fitness is stored as NULL.
func (s *SQLiteCache) Store(ctx context.Context, g search.Genotype, fitness float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	value := sql.NullFloat64{Float64: fitness, Valid: !math.IsInf(fitness, 0) && !math.IsNaN(fitness)}
	_, err = db.ExecContext(ctx, `
		INSERT INTO fitness (scope, address_mapping, mc_config, mem_spec, sim_config, clk_mhz, fitness)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scope, address_mapping, mc_config, mem_spec, sim_config, clk_mhz) DO UPDATE SET
			fitness = excluded.fitness
	`, s.scope, g.AddressMapping, g.MCConfig, g.MemSpec, g.SimConfig, g.ClkMHz, value)
	if err != nil {
		return fmt.Errorf("store %s: %w", g, err)
	}
	return nil
}

// Len returns the number of entries in this cache's scope.
func (s *SQLiteCache) Len(ctx context.Context) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fitness WHERE scope = ?`, s.scope).Scan(&n)
	return n, err
}

// Close releases the database. It is safe to call more than once.
func (s *SQLiteCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteCache) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("cache is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS fitness (
			scope TEXT NOT NULL,
			address_mapping TEXT NOT NULL,
			mc_config TEXT NOT NULL,
			mem_spec TEXT NOT NULL,
			sim_config TEXT NOT NULL,
			clk_mhz INTEGER NOT NULL,
			fitness REAL,
			PRIMARY KEY (scope, address_mapping, mc_config, mem_spec, sim_config, clk_mhz)
		);
	`)
	return err
}
