// Package persist provides an optional BadgerDB-backed warm-start for
// the transposition table, adapted from the teacher's internal/storage
// package (which persists user preferences and game statistics the
// same way). Persistence across process restarts is explicitly
// optional for the search core (spec §4.J): nothing in internal/search
// depends on this package, and a fresh TranspositionTable works fine
// with nothing ever loaded into it.
package persist

import (
	"bytes"
	"encoding/gob"

	"github.com/dgraph-io/badger/v4"

	"github.com/tttak/shogicore/internal/search"
)

const ttSnapshotKey = "tt_snapshot"

// Store wraps a BadgerDB handle used to snapshot and restore search
// state between runs.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB database rooted at
// dir. Logging is disabled, mirroring the teacher's NewStorage.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTT snapshots tt's occupied entries and writes them under a
// single key, gob-encoded. Callers persist between searches, never
// concurrently with one (spec §4.J).
func (s *Store) SaveTT(tt *search.TranspositionTable) error {
	snap := tt.Snapshot()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(ttSnapshotKey), buf.Bytes())
	})
}

// LoadTT restores a previously saved snapshot into tt. It is a no-op,
// not an error, if no snapshot has ever been saved — a cold-started
// engine behaves exactly like one that skipped persistence entirely.
func (s *Store) LoadTT(tt *search.TranspositionTable) error {
	var snap []search.TTEntrySnapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ttSnapshotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&snap)
		})
	})
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	tt.Restore(snap)
	return nil
}
