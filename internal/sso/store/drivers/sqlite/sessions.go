package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/domain"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
)

type sessionsRepo struct {
	db *sql.DB
}

const listSessions = `SELECT id, username, ip, created_at FROM sessions`

func (r *sessionsRepo) ListSessions(ctx context.Context) (map[string]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, listSessions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make(map[string]domain.Session)
	for rows.Next() {
		var (
			s       domain.Session
			created int64
		)
		if err := rows.Scan(&s.ID, &s.Username, &s.IP, &created); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		sessions[s.ID] = s
	}
	return sessions, rows.Err()
}

const createSession = `
INSERT INTO sessions (id, username, ip, created_at)
VALUES (?, ?, ?, ?)`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, createSession, s.ID, s.Username, s.IP, s.CreatedAt.UnixNano())
	if isUniqueConstraintError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

const deleteSession = `DELETE FROM sessions WHERE id = ?`

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteSession, id)
	return err
}

const deleteSessionsCreatedBefore = `DELETE FROM sessions WHERE created_at <= ?`

func (r *sessionsRepo) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, deleteSessionsCreatedBefore, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}
