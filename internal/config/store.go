// Package config persists UCI-tunable engine options across process
// restarts, so a GUI that launches and kills the engine between games
// doesn't lose the operator's Hash/Threads tuning every time.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

const optionsKey = "uci_options"

// Options holds the persisted value of every UCI option this engine
// exposes via setoption.
type Options struct {
	HashMB   int  `json:"hash_mb"`
	Threads  int  `json:"threads"`
	DebugLog bool `json:"debug_log"`
}

// DefaultOptions returns the options an engine starts with before any
// setoption or persisted store is consulted.
func DefaultOptions() Options {
	return Options{HashMB: 64, Threads: 1, DebugLog: false}
}

// Store wraps an embedded key-value database holding the current Options.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the option store under the user's
// config directory. Badger's own logger is silenced since stdout/stderr on
// a UCI engine process are reserved for the protocol stream and
// diagnostics, not database chatter.
func Open() (*Store, error) {
	dir, err := storeDir()
	if err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func storeDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "chessplaycore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the persisted options, or DefaultOptions if none have been
// saved yet.
func (s *Store) Load() (Options, error) {
	opts := DefaultOptions()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(optionsKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})
	return opts, err
}

// Save persists opts, overwriting whatever was stored before.
func (s *Store) Save(opts Options) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(optionsKey), data)
	})
}
