package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/formloop/formloop/model"
)

// FormSummary is the owner-facing list representation of a form.
type FormSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	PublicSlug    string    `json:"publicSlug"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	ResponseCount int       `json:"responseCount"`
}

// ListQuery selects a page of an owner's forms, optionally filtered by
// a case-insensitive search over title and description.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

func (s *Store) CreateForm(ctx context.Context, form model.Form) error {
	questions, err := json.Marshal(form.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form (id, owner_id, title, description, questions, public_slug, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		form.ID,
		form.OwnerID,
		form.Title,
		form.Description,
		string(questions),
		form.PublicSlug,
		form.IsActive,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// SlugTaken probes slug uniqueness across all forms.
func (s *Store) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM form WHERE public_slug = ?`, slug,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// FormByID fetches an owner's form. A form belonging to someone else is
// indistinguishable from a missing one.
func (s *Store) FormByID(ctx context.Context, id, ownerID string) (model.Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, questions, public_slug, is_active, created_at, updated_at
		FROM form
		WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	))
}

// FormBySlug fetches an active form by its public slug. Inactive forms
// are invisible here.
func (s *Store) FormBySlug(ctx context.Context, slug string) (model.Form, error) {
	return s.scanForm(s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, questions, public_slug, is_active, created_at, updated_at
		FROM form
		WHERE public_slug = ? AND is_active = 1`,
		slug,
	))
}

// ListForms returns one page of the owner's forms, newest first, with
// per-form response counts, plus the total number of matching forms.
// Count and page are separate queries and may observe slightly
// different snapshots under concurrent writes.
func (s *Store) ListForms(ctx context.Context, ownerID string, q ListQuery) ([]FormSummary, int, error) {
	where := `owner_id = ?`
	args := []any{ownerID}
	if q.Search != "" {
		where += ` AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(q.Search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM form WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	page := model.Paginate(q.Page, q.Limit, total)
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			f.id, f.title, f.description, f.public_slug, f.is_active, f.created_at,
			(SELECT COUNT(*) FROM response r WHERE r.form_id = f.id)
		FROM form f
		WHERE `+where+`
		ORDER BY f.created_at DESC
		LIMIT ? OFFSET ?`,
		append(args, page.ItemsPerPage, page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := []FormSummary{}
	for rows.Next() {
		var f FormSummary
		err = rows.Scan(&f.ID, &f.Title, &f.Description, &f.PublicSlug, &f.IsActive, &f.CreatedAt, &f.ResponseCount)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, f)
	}
	return summaries, total, rows.Err()
}

// FormUpdate carries the owner-editable fields; nil means unchanged.
type FormUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateForm applies a partial update to an owner's form and returns
// the updated record.
func (s *Store) UpdateForm(ctx context.Context, id, ownerID string, update FormUpdate) (model.Form, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*update.Title))
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, strings.TrimSpace(*update.Description))
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *update.IsActive)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE form SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`,
		append(args, id, ownerID)...,
	)
	if err != nil {
		return model.Form{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Form{}, err
	}
	if n < 1 {
		return model.Form{}, ErrNotFound
	}

	return s.FormByID(ctx, id, ownerID)
}

// DeleteForm removes an owner's form along with every response that
// references it, atomically.
func (s *Store) DeleteForm(ctx context.Context, id, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM form WHERE id = ? AND owner_id = ?`,
		id, ownerID,
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

	// the FK cascade covers this; the explicit delete keeps the
	// cascade observable even with foreign keys off
	_, err = tx.ExecContext(ctx, `DELETE FROM response WHERE form_id = ?`, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanForm(row rowScanner) (model.Form, error) {
	var form model.Form
	var questions string
	err := row.Scan(
		&form.ID, &form.OwnerID, &form.Title, &form.Description,
		&questions, &form.PublicSlug, &form.IsActive,
		&form.CreatedAt, &form.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, ErrNotFound
	}
	if err != nil {
		return model.Form{}, err
	}

	err = json.Unmarshal([]byte(questions), &form.Questions)
	if err != nil {
		return model.Form{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return form, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
