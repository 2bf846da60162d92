// Package session persists editor state between runs in a small sqlite
// key-value table, mirroring the browser origin storage of the web
// editor. All access is best-effort: a missing or unreadable database
// degrades to an empty in-memory session instead of failing the program.
package session

import (
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Well-known session keys.
const (
	KeyHTML         = "wac:html"
	KeyTheme        = "wac:theme"
	KeyCustomThemes = "wac:customThemes"
	KeyView         = "wac:view"
)

// Store is a single-connection sqlite key-value store. It is not safe for
// concurrent use, matching the one-session-per-process model.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens (or creates) the session database at path. An empty path or
// a database that cannot be opened or prepared yields an in-memory store,
// so callers never have to branch on persistence being available.
func Open(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("session")

	s := &Store{log: log}
	if path != "" {
		conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
		if err == nil {
			if err = prepare(conn); err == nil {
				s.conn = conn
				log.Debug("Session database opened", zap.String("path", path))
				return s
			}
			conn.Close()
		}
		log.Warn("Unable to open session database, continuing without persistence",
			zap.String("path", path), zap.Error(err))
	}

	conn, err := sqlite.OpenConn(":memory:", sqlite.OpenReadWrite, sqlite.OpenMemory)
	if err == nil {
		if err = prepare(conn); err == nil {
			s.conn = conn
			return s
		}
		conn.Close()
	}
	// No storage at all; every Get misses and every Set is dropped.
	log.Warn("Unable to open in-memory session store", zap.Error(err))
	return s
}

func prepare(conn *sqlite.Conn) error {
	err := sqlitex.ExecuteTransient(conn,
		`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`, nil)
	if err != nil {
		return fmt.Errorf("prepare session schema: %w", err)
	}
	return nil
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	if s.conn == nil {
		return "", false
	}
	var value string
	found := false
	err := sqlitex.Execute(s.conn, `SELECT value FROM kv WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				found = true
				return nil
			}})
	if err != nil {
		s.log.Debug("Session read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return value, found
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) {
	if s.conn == nil {
		return
	}
	err := sqlitex.Execute(s.conn, `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		s.log.Debug("Session write failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	if s.conn == nil {
		return
	}
	err := sqlitex.Execute(s.conn, `DELETE FROM kv WHERE key = ?`,
		&sqlitex.ExecOptions{Args: []any{key}})
	if err != nil {
		s.log.Debug("Session delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear drops all session keys.
func (s *Store) Clear() {
	if s.conn == nil {
		return
	}
	if err := sqlitex.ExecuteTransient(s.conn, `DELETE FROM kv`, nil); err != nil {
		s.log.Debug("Session clear failed", zap.Error(err))
	}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
