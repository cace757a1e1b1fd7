package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/formloop/formloop/model"
)

// ResponseQuery selects a page of a form's responses, optionally
// restricted to a submission date range.
type ResponseQuery struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Store) CreateResponse(ctx context.Context, resp model.Response) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO response (id, form_id, answers, user_agent, source_address, duration_ms, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resp.ID,
		resp.FormID,
		string(answers),
		resp.Metadata.UserAgent,
		resp.Metadata.SourceAddress,
		resp.Metadata.SubmissionDurationMs,
		resp.SubmittedAt,
	)
	return err
}

// Responses returns one page of a form's responses, newest first.
func (s *Store) Responses(ctx context.Context, formID string, q ResponseQuery) ([]model.Response, error) {
	where, args := responseFilter(formID, q)
	page := model.Paginate(q.Page, q.Limit, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, answers, user_agent, source_address, duration_ms, submitted_at
		FROM response
		WHERE `+where+`
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?`,
		append(args, page.ItemsPerPage, page.Offset())...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResponses(rows)
}

// CountResponses counts the responses matching the query's filter.
// This is a separate query from the page fetch and may observe a
// slightly different snapshot under concurrent writes.
func (s *Store) CountResponses(ctx context.Context, formID string, q ResponseQuery) (int, error) {
	where, args := responseFilter(formID, q)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM response WHERE `+where, args...,
	).Scan(&total)
	return total, err
}

// AllResponses returns every response of a form, newest first, for
// aggregation and export.
func (s *Store) AllResponses(ctx context.Context, formID string) ([]model.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, answers, user_agent, source_address, duration_ms, submitted_at
		FROM response
		WHERE form_id = ?
		ORDER BY submitted_at DESC`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResponses(rows)
}

func (s *Store) ResponseCount(ctx context.Context, formID string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM response WHERE form_id = ?`, formID,
	).Scan(&total)
	return total, err
}

func responseFilter(formID string, q ResponseQuery) (string, []any) {
	where := `form_id = ?`
	args := []any{formID}
	if q.StartDate != nil {
		where += ` AND submitted_at >= ?`
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		where += ` AND submitted_at <= ?`
		args = append(args, *q.EndDate)
	}
	return where, args
}

type rowsScanner interface {
	rowScanner
	Next() bool
	Err() error
}

func scanResponses(rows rowsScanner) ([]model.Response, error) {
	responses := []model.Response{}
	for rows.Next() {
		var resp model.Response
		var answers string
		err := rows.Scan(
			&resp.ID, &resp.FormID, &answers,
			&resp.Metadata.UserAgent, &resp.Metadata.SourceAddress, &resp.Metadata.SubmissionDurationMs,
			&resp.SubmittedAt,
		)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal([]byte(answers), &resp.Answers)
		if err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}
