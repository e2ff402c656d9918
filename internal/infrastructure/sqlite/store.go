// Package sqlite persiste el almacén en memoria como instantáneas JSON en un archivo SQLite.
// Pensado para fincas sin servidor PostgreSQL (un solo proceso por archivo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/memory"
	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

// DefaultPath archivo usado cuando no se indica ruta.
const DefaultPath = "ganaderia.db"

// Store guarda el estado completo en la tabla state (un bucket JSON por colección)
// después de cada escritura confirmada del almacén en memoria.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore abre (o crea) el archivo, carga el estado previo y registra la persistencia en cada commit.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// un escritor a la vez
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.OnCommit(s.persist)
	return s, nil
}

// bucket asocia un nombre de bucket con la colección del snapshot que serializa.
type bucket struct {
	name  string
	field func(*memory.Snapshot) any
}

var buckets = []bucket{
	{"farms", func(s *memory.Snapshot) any { return &s.Farms }},
	{"animals", func(s *memory.Snapshot) any { return &s.Animals }},
	{"drugs", func(s *memory.Snapshot) any { return &s.Drugs }},
	{"batches", func(s *memory.Snapshot) any { return &s.Batches }},
	{"movements", func(s *memory.Snapshot) any { return &s.Movements }},
	{"administrations", func(s *memory.Snapshot) any { return &s.Administrations }},
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	payloads := make(map[string][]byte)
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		payloads[name] = payload
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(payloads) == 0 {
		return nil
	}
	var snap memory.Snapshot
	for _, b := range buckets {
		data, ok := payloads[b.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, b.field(&snap)); err != nil {
			return fmt.Errorf("decode %s: %w", b.name, err)
		}
	}
	s.ImportState(snap)
	return nil
}

func (s *Store) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, b := range buckets {
		data, err := json.Marshal(b.field(&snap))
		if err != nil {
			return fmt.Errorf("encode %s: %w", b.name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			b.name, data); err != nil {
			return fmt.Errorf("upsert %s: %w", b.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Close cierra el archivo.
func (s *Store) Close() error { return s.db.Close() }

// Path ruta del archivo SQLite.
func (s *Store) Path() string { return s.path }
