package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// lookupDB caches structured responses so re-reading a page does not re-pay
// for the same definitions. It is a transport cache, not the reader's
// vocabulary store.
type lookupDB struct {
	db *sqlx.DB
}

type dbLookup struct {
	Key       string    `db:"key"`
	Backend   string    `db:"backend"`
	Kind      string    `db:"kind"`
	Language  string    `db:"language"`
	Response  []byte    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}

func dbAt(dir string) (*lookupDB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create cache dir: %w", err)
	}
	db, err := sqlx.Open("sqlite", filepath.Join(dir, "lookups.sqlite"))
	if err != nil {
		return nil, fmt.Errorf("could not open cache db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping cache db: %w", err)
	}
	if _, err := db.Exec(`
		create table if not exists lookups(
			key string not null primary key,
			backend string not null,
			kind string not null,
			language string not null,
			response blob not null,
			created_at datetime not null default current_timestamp
		);
	`); err != nil {
		return nil, fmt.Errorf("could not migrate cache db: %w", err)
	}
	return &lookupDB{db}, nil
}

// Get unmarshals a cached response into out. The boolean reports a hit.
func (d *lookupDB) Get(key string, out any) (bool, error) {
	var row dbLookup
	err := d.db.Get(&row, "select * from lookups where key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not read cached lookup: %w", err)
	}
	if err := json.Unmarshal(row.Response, out); err != nil {
		return false, fmt.Errorf("could not decode cached lookup: %w", err)
	}
	return true, nil
}

// Put stores a structured response under its key, replacing any earlier
// one.
func (d *lookupDB) Put(key, backend, kind, language string, value any) error {
	response, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode lookup: %w", err)
	}
	if _, err := d.db.Exec(`
		insert or replace into lookups (key, backend, kind, language, response)
		values ($1, $2, $3, $4, $5)
	`, key, backend, kind, language, response); err != nil {
		return fmt.Errorf("could not save lookup: %w", err)
	}
	return nil
}

// Count returns how many responses are cached.
func (d *lookupDB) Count() (int, error) {
	var n int
	if err := d.db.Get(&n, "select count(*) from lookups"); err != nil {
		return 0, fmt.Errorf("could not count lookups: %w", err)
	}
	return n, nil
}

// Clear drops every cached response.
func (d *lookupDB) Clear() error {
	if _, err := d.db.Exec("delete from lookups"); err != nil {
		return fmt.Errorf("could not clear lookups: %w", err)
	}
	return nil
}

func (d *lookupDB) Close() error {
	return d.db.Close() //nolint: wrapcheck
}
