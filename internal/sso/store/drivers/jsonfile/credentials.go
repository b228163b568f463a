package jsonfile

import (
	"context"
	"maps"
	"slices"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
)

type credentialsRepo struct {
	s *Store
}

func (r *credentialsRepo) GetCredential(ctx context.Context, username string) (domain.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadCredentials(); err != nil {
		return domain.Credential{}, err
	}
	c, ok := r.s.credentials[username]
	if !ok {
		return domain.Credential{}, store.ErrNotFound
	}
	return c, nil
}

func (r *credentialsRepo) PutCredential(ctx context.Context, c domain.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadCredentials(); err != nil {
		return err
	}

	next := maps.Clone(r.s.credentials)
	next[c.Username] = c
	if err := r.s.writeDocument(CredentialsFile, next); err != nil {
		return err
	}
	r.s.credentials = next
	return nil
}

func (r *credentialsRepo) DeleteCredential(ctx context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadCredentials(); err != nil {
		return err
	}
	if _, ok := r.s.credentials[username]; !ok {
		return store.ErrNotFound
	}

	next := maps.Clone(r.s.credentials)
	delete(next, username)
	if err := r.s.writeDocument(CredentialsFile, next); err != nil {
		return err
	}
	r.s.credentials = next
	return nil
}

func (r *credentialsRepo) ListUsernames(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.loadCredentials(); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(r.s.credentials)), nil
}
