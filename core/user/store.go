package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool (or pgx.Tx) the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads and updates panel user records in the relational database.
type Store struct {
	db DB
}

// NewStore creates a user store over the given connection pool.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// selectUser joins the account with its group and primary email. Only active
// accounts are visible to the panel.
const selectUser = `
SELECT a.id, a.name, a.username, a.password, a.active, COALESCE(a.backup_email, ''),
       g.id, g.group_name, g.permissions,
       COALESCE(e.email_address, ''),
       a.require_password_change, a.created
FROM accounts a
JOIN groups g ON g.id = a.group_id
LEFT JOIN emails e ON e.account = a.id AND e.email_type = 'primary'
WHERE a.active = TRUE AND `

// GetByID returns the active user with the given account id, or nil when
// absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*PanelUser, error) {
	return s.get(ctx, selectUser+`a.id = $1`, id)
}

// GetByUsername returns the active user with the given username, or nil when
// absent. Used by the login flow.
func (s *Store) GetByUsername(ctx context.Context, username string) (*PanelUser, error) {
	return s.get(ctx, selectUser+`a.username = $1`, username)
}

// GetByBackupEmail returns the active user whose backup email matches, or nil
// when absent. Used by the password-reset request flow.
func (s *Store) GetByBackupEmail(ctx context.Context, email string) (*PanelUser, error) {
	return s.get(ctx, selectUser+`a.backup_email = $1`, email)
}

func (s *Store) get(ctx context.Context, query string, arg any) (*PanelUser, error) {
	var (
		u     PanelUser
		perms []byte
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.Active, &u.BackupEmail,
		&u.GroupID, &u.GroupName, &perms,
		&u.PrimaryEmail,
		&u.RequirePasswordChange, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrQueryUser, err)
	}

	if err := json.Unmarshal(perms, &u.GroupPermissions); err != nil {
		return nil, fmt.Errorf("%w: bad permissions for group %d: %w", ErrQueryUser, u.GroupID, err)
	}
	return &u, nil
}

// UpdatePassword replaces the account's password hash and clears the
// require-password-change flag. Used when a reset token is consumed.
func (s *Store) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE accounts SET password = $1, require_password_change = FALSE WHERE id = $2`,
		passwordHash, accountID,
	)
	if err != nil {
		return errors.Join(ErrUpdateUser, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
