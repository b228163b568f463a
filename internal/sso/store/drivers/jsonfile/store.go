// Package jsonfile stores credentials and sessions as JSON documents in a data
// directory, compatible with the files written by earlier deployments:
// secrets.json maps username to {salt, hash, iterations} and sessions.json
// maps session id to {username, ip, timestamp}.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
)

const (
	CredentialsFile = "secrets.json"
	SessionsFile    = "sessions.json"
)

type Store struct {
	dir string

	mu          sync.Mutex
	credentials map[string]domain.Credential
	sessions    map[string]domain.Session
}

var _ store.Store = (*Store)(nil)

// NewStore returns a store rooted at dir. Nothing is read until first use;
// ApplyMigrations creates the directory if it is missing.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Credentials() store.Credentials { return &credentialsRepo{s: s} }
func (s *Store) Sessions() store.Sessions       { return &sessionsRepo{s: s} }

// ApplyMigrations ensures the data directory exists.
func (s *Store) ApplyMigrations() error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("jsonfile: create data directory: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Ping checks that the data directory is still there.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("jsonfile: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("jsonfile: %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readDocument decodes the JSON object in name into dst, rejecting unknown
// fields. A missing file, or one that is empty or only whitespace, leaves dst
// untouched.
func (s *Store) readDocument(name string, dst any) error {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonfile: read %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("jsonfile: decode %s: %w", name, err)
	}
	return nil
}

// writeDocument replaces name with the indented JSON form of v. The new
// content is written to a temporary file in the same directory and renamed
// over the old one so readers never observe a partial document.
func (s *Store) writeDocument(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("jsonfile: create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", name, err)
	}
	return nil
}

// loadCredentials and loadSessions must be called with mu held.

func (s *Store) loadCredentials() error {
	if s.credentials != nil {
		return nil
	}
	doc := map[string]domain.Credential{}
	if err := s.readDocument(CredentialsFile, &doc); err != nil {
		return err
	}
	for username, c := range doc {
		if err := c.PasswordRecord.Validate(); err != nil {
			return fmt.Errorf("jsonfile: %s: user %q: %w", CredentialsFile, username, err)
		}
		c.Username = username
		doc[username] = c
	}
	s.credentials = doc
	return nil
}

func (s *Store) loadSessions() error {
	if s.sessions != nil {
		return nil
	}
	doc := map[string]domain.Session{}
	if err := s.readDocument(SessionsFile, &doc); err != nil {
		return err
	}
	for id, sess := range doc {
		sess.ID = id
		doc[id] = sess
	}
	s.sessions = doc
	return nil
}
