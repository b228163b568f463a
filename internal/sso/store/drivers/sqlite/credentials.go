package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
)

type credentialsRepo struct {
	db *sql.DB
}

const getCredential = `
SELECT username, salt, hash, iterations
FROM credentials
WHERE username = ?`

func (r *credentialsRepo) GetCredential(ctx context.Context, username string) (domain.Credential, error) {
	var c domain.Credential
	err := r.db.QueryRowContext(ctx, getCredential, username).
		Scan(&c.Username, &c.Salt, &c.Hash, &c.Iterations)
	if err != nil {
		return domain.Credential{}, mapNotFound(err)
	}
	return c, nil
}

const putCredential = `
INSERT INTO credentials (username, salt, hash, iterations)
VALUES (?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET
    salt = excluded.salt,
    hash = excluded.hash,
    iterations = excluded.iterations,
    updated_at = CURRENT_TIMESTAMP`

func (r *credentialsRepo) PutCredential(ctx context.Context, c domain.Credential) error {
	_, err := r.db.ExecContext(ctx, putCredential, c.Username, c.Salt, c.Hash, c.Iterations)
	return err
}

const deleteCredential = `DELETE FROM credentials WHERE username = ?`

func (r *credentialsRepo) DeleteCredential(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, deleteCredential, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const listUsernames = `SELECT username FROM credentials ORDER BY username`

func (r *credentialsRepo) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listUsernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
