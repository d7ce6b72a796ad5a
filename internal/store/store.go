// Package store persists the case aggregate in a local BadgerDB
// instance under the project's .parley directory. The whole case lives
// under one fixed key: absence of the key means "no case", and a
// record that fails to parse is treated identically to absence rather
// than partially recovered.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"parley/internal/casefile"
)

// caseKey is the single storage key for the serialized case.
var caseKey = []byte("parley/case")

// ErrNoCase is returned when no readable case record exists.
var ErrNoCase = errors.New("store: no case")

// Store wraps the BadgerDB handle.
type Store struct {
	db *badger.DB
}

// Option customizes how the database is opened.
type Option func(*badger.Options)

// WithInMemory opens the database without disk persistence (for tests).
func WithInMemory() Option {
	return func(o *badger.Options) {
		o.InMemory = true
		o.Dir = ""
		o.ValueDir = ""
	}
}

// Open opens (or creates) the case database at path. Badger's own
// logging is disabled; it would fight the TUI for the terminal.
func Open(path string, opts ...Option) (*Store, error) {
	options := badger.DefaultOptions(path).WithLogger(nil)
	for _, opt := range opts {
		opt(&options)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save serializes the case and writes it under the fixed key.
func (s *Store) Save(c casefile.Case) error {
	encoded, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: encode case: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(caseKey, encoded)
	})
	if err != nil {
		return fmt.Errorf("store: write case: %w", err)
	}
	return nil
}

// Load reads the stored case. A missing key and an unparseable record
// both surface as ErrNoCase; there is no partial recovery.
func (s *Store) Load() (casefile.Case, error) {
	var encoded []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(caseKey)
		if err != nil {
			return err
		}
		encoded, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return casefile.Case{}, ErrNoCase
		}
		return casefile.Case{}, fmt.Errorf("store: read case: %w", err)
	}
	var c casefile.Case
	if err := json.Unmarshal(encoded, &c); err != nil {
		return casefile.Case{}, ErrNoCase
	}
	return c, nil
}

// Clear deletes the persisted case.
func (s *Store) Clear() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(caseKey)
	})
	if err != nil {
		return fmt.Errorf("store: clear case: %w", err)
	}
	return nil
}
