// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package unitdata provides a small durable key value store kept next to
// the charm, used to remember state between hook invocations.
package unitdata

import (
	"context"
	"database/sql"
	"sync"

	"github.com/canonical/sqlair"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	_ "github.com/mattn/go-sqlite3"
)

var logger = loggo.GetLogger("octavia.retrofit.unitdata")

// Keys recorded by the charm.
const (
	KeyLastImageID       = "last-image-id"
	KeyLastTimestamp     = "last-timestamp"
	KeyPreviousFrequency = "previous-frequency"
)

// DefaultFilename is the store file name, relative to the charm directory.
const DefaultFilename = ".unit-state.db"

type kvRow struct {
	Key  string `db:"key"`
	Data string `db:"data"`
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key  TEXT PRIMARY KEY,
    data TEXT NOT NULL
)`

var (
	upsertStmt = sqlair.MustPrepare(`
INSERT INTO kv (key, data) VALUES ($kvRow.key, $kvRow.data)
ON CONFLICT (key) DO UPDATE SET data = excluded.data`, kvRow{})
	selectStmt = sqlair.MustPrepare(`
SELECT &kvRow.* FROM kv WHERE key = $kvRow.key`, kvRow{})
	deleteStmt = sqlair.MustPrepare(`
DELETE FROM kv WHERE key = $kvRow.key`, kvRow{})
)

// Store is a key value store backed by a sqlite file. Writes are held in
// a transaction until Flush is called.
type Store struct {
	mu sync.Mutex
	db *sqlair.DB
	tx *sqlair.TX
}

// Open opens, creating if necessary, the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Annotatef(err, "opening unit data %q", path)
	}
	// Pending writes hold the only connection until flushed.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Annotatef(err, "creating unit data schema in %q", path)
	}
	return &Store{db: sqlair.NewDB(sqlDB)}, nil
}

func (s *Store) pending(ctx context.Context) (*sqlair.TX, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.Begin(ctx, nil)
	if err != nil {
		return nil, errors.Annotate(err, "starting unit data transaction")
	}
	s.tx = tx
	return tx, nil
}

// Set records value under key. The change is durable once Flush returns.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.pending(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if err := tx.Query(ctx, upsertStmt, kvRow{Key: key, Data: value}).Run(); err != nil {
		return errors.Annotatef(err, "setting %q", key)
	}
	return nil
}

// Unset removes key from the store.
func (s *Store) Unset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.pending(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if err := tx.Query(ctx, deleteStmt, kvRow{Key: key}).Run(); err != nil {
		return errors.Annotatef(err, "unsetting %q", key)
	}
	return nil
}

// Get returns the value recorded under key, including writes not yet
// flushed. A NotFound error is returned for unknown keys.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := kvRow{Key: key}
	var err error
	if s.tx != nil {
		err = s.tx.Query(ctx, selectStmt, row).Get(&row)
	} else {
		err = s.db.Query(ctx, selectStmt, row).Get(&row)
	}
	if errors.Is(err, sqlair.ErrNoRows) {
		return "", errors.NotFoundf("unit data %q", key)
	} else if err != nil {
		return "", errors.Annotatef(err, "getting %q", key)
	}
	return row.Data, nil
}

// Flush commits every write made since the last flush.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return errors.Annotate(tx.Commit(), "flushing unit data")
}

// Close discards unflushed writes and closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		logger.Debugf("discarding unflushed unit data")
		if err := s.tx.Rollback(); err != nil {
			logger.Warningf("rolling back unit data: %v", err)
		}
		s.tx = nil
	}
	return errors.Trace(s.db.PlainDB().Close())
}
