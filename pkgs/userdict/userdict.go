// Package userdict implements the persistent, crash-safe record of
// user-committed phrase frequencies.
//
// Backed by mattn/go-sqlite3 opened in WAL mode: reads proceed under a
// snapshot while a write holds the lock, and SQLite's journal recovery
// means a partial write never yields a corrupt database on reopen.
package userdict

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/logging"
)

const (
	journalMode    = "WAL"
	busyTimeoutMS  = 5000
	createTableSQL = `
CREATE TABLE IF NOT EXISTS phrases (
	phrase TEXT PRIMARY KEY,
	freq   INTEGER NOT NULL
);`
)

// UserDict is a single-writer, ACID key-value store of phrase -> count.
type UserDict struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open opens or creates the user dictionary at path. A nil log is
// replaced with a no-op logger.
func Open(path string, log *zap.SugaredLogger) (*UserDict, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = logging.Component(log, "userdict")

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errcode.Wrapf(errcode.StorageIO, "create directory %s: %v", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errcode.Wrapf(errcode.StorageIO, "open %s: %v", path, err)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.Exec("PRAGMA journal_mode = " + journalMode); err != nil {
		db.Close()
		return nil, errcode.Wrapf(errcode.StorageIO, "enable %s journal mode: %v", journalMode, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errcode.Wrapf(errcode.StorageIO, "enable foreign keys: %v", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = " + strconv.Itoa(busyTimeoutMS)); err != nil {
		db.Close()
		return nil, errcode.Wrapf(errcode.StorageIO, "set busy timeout: %v", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errcode.Wrapf(errcode.StorageIO, "create phrases table: %v", err)
	}

	log.Infow("user dictionary opened", logging.FieldPath, path)
	return &UserDict{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (u *UserDict) Close() error {
	return u.db.Close()
}

// Bump increments phrase's count by delta, inserting at delta if new.
// The increment is a single ACID transaction.
func (u *UserDict) Bump(phrase string, delta uint64) error {
	if delta == 0 {
		delta = 1
	}
	tx, err := u.db.Begin()
	if err != nil {
		return errcode.Wrapf(errcode.StorageIO, "begin bump transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO phrases (phrase, freq) VALUES (?, ?)
		 ON CONFLICT(phrase) DO UPDATE SET freq = freq + excluded.freq`,
		phrase, delta,
	)
	if err != nil {
		return errcode.Wrapf(errcode.StorageIO, "bump %q: %v", phrase, err)
	}
	if err := tx.Commit(); err != nil {
		return errcode.Wrapf(errcode.StorageIO, "commit bump %q: %v", phrase, err)
	}
	u.log.Debugw("bumped phrase", logging.FieldPhrase, phrase, logging.FieldCount, delta)
	return nil
}

// Get returns phrase's cumulative frequency, or false if never committed.
func (u *UserDict) Get(phrase string) (uint64, bool, error) {
	var freq uint64
	err := u.db.QueryRow(`SELECT freq FROM phrases WHERE phrase = ?`, phrase).Scan(&freq)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errcode.Wrapf(errcode.StorageIO, "get %q: %v", phrase, err)
	}
	return freq, true, nil
}

// Entry is one (phrase, frequency) pair returned by IterAll.
type Entry struct {
	Phrase string
	Freq   uint64
}

// IterAll returns every committed phrase in lexicographic order by
// phrase text. That is the store's documented stable iteration order;
// it is what the PRIMARY KEY index gives for free.
func (u *UserDict) IterAll() ([]Entry, error) {
	rows, err := u.db.Query(`SELECT phrase, freq FROM phrases ORDER BY phrase ASC`)
	if err != nil {
		return nil, errcode.Wrapf(errcode.StorageIO, "iterate phrases: %v", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Phrase, &e.Freq); err != nil {
			return nil, errcode.Wrapf(errcode.StorageIO, "scan phrase row: %v", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errcode.Wrapf(errcode.StorageIO, "read phrase rows: %v", err)
	}
	return out, nil
}
