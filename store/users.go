package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/formloop/formloop/model"
)

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user (id, email, password_hash, business_name, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.BusinessName,
		user.Verified,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, business_name, verified, created_at
		FROM user
		WHERE email = ?`,
		email,
	))
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, business_name, verified, created_at
		FROM user
		WHERE id = ?`,
		id,
	))
}

// MarkVerified flags the account as email-verified after a successful
// passcode check.
func (s *Store) MarkVerified(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user SET verified = 1 WHERE email = ?`, email,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) scanUser(row rowScanner) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.BusinessName, &user.Verified, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}
