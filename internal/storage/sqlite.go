package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fileranker/internal/ir"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache creates or opens a SQLite database.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteCache{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

func (s *SQLiteCache) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS file_facts (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			fact_count INTEGER,
			facts JSON,
			updated_at INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_file_facts_hash ON file_facts(content_hash);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteCache) Get(ctx context.Context, path, hash string) ([]ir.DeclarationFact, bool, error) {
	var storedHash string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash, facts FROM file_facts WHERE path = ?`, path,
	).Scan(&storedHash, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query facts for %s: %w", path, err)
	}
	if storedHash != hash {
		return nil, false, nil
	}

	facts := []ir.DeclarationFact{}
	if err := json.Unmarshal(payload, &facts); err != nil {
		return nil, false, fmt.Errorf("failed to decode facts for %s: %w", path, err)
	}
	if facts == nil {
		facts = []ir.DeclarationFact{}
	}
	return facts, true, nil
}

func (s *SQLiteCache) Put(ctx context.Context, path, hash string, facts []ir.DeclarationFact) error {
	if facts == nil {
		facts = []ir.DeclarationFact{}
	}
	payload, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to encode facts for %s: %w", path, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO file_facts (path, content_hash, fact_count, facts, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash,
			fact_count=excluded.fact_count,
			facts=excluded.facts,
			updated_at=excluded.updated_at
	`, path, hash, len(facts), payload, time.Now().Unix())
	return err
}
