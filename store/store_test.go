package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formloop/formloop/database"
	"github.com/formloop/formloop/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func seedUser(t *testing.T, s *Store) model.User {
	t.Helper()

	user := model.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: []byte("hash"),
		BusinessName: "Acme Coffee",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedForm(t *testing.T, s *Store, ownerID string, mutate ...func(*model.Form)) model.Form {
	t.Helper()

	now := time.Now().UTC()
	form := model.Form{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   "Customer Feedback",
		Questions: []model.Question{
			{ID: "q1", Text: "How was your visit?", Type: model.QuestionText, Required: true, Order: 1},
			{ID: "q2", Text: "Rate us", Type: model.QuestionRadio, Options: []string{"Good", "Bad"}, Order: 2},
			{ID: "q3", Text: "Anything else?", Type: model.QuestionTextarea, Order: 3},
		},
		PublicSlug: uuid.NewString()[:8],
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, m := range mutate {
		m(&form)
	}
	require.NoError(t, s.CreateForm(context.Background(), form))
	return form
}

func seedResponse(t *testing.T, s *Store, formID string, submittedAt time.Time) model.Response {
	t.Helper()

	resp := model.Response{
		ID:     uuid.NewString(),
		FormID: formID,
		Answers: []model.Answer{
			{QuestionID: "q1", Answer: model.ScalarAnswer("Great")},
			{QuestionID: "q2", Answer: model.ScalarAnswer("Good")},
		},
		Metadata: model.ResponseMetadata{
			UserAgent:            "test-agent",
			SourceAddress:        "203.0.113.7",
			SubmissionDurationMs: 42000,
		},
		SubmittedAt: submittedAt,
	}
	require.NoError(t, s.CreateResponse(context.Background(), resp))
	return resp
}

func TestForms(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip by id", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		got, err := s.FormByID(ctx, created.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.PublicSlug, got.PublicSlug)
		assert.Equal(t, created.Questions, got.Questions)
		assert.True(t, got.IsActive)
	})

	t.Run("id lookup is owner scoped", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		other := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		_, err := s.FormByID(ctx, created.ID, other.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		clash := created
		clash.ID = uuid.NewString()
		assert.ErrorIs(t, s.CreateForm(ctx, clash), ErrDuplicate)
	})

	t.Run("slug probe", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		taken, err := s.SlugTaken(ctx, created.PublicSlug)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = s.SlugTaken(ctx, "no-such-1")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("slug lookup sees only active forms", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		active := seedForm(t, s, owner.ID)
		inactive := seedForm(t, s, owner.ID, func(f *model.Form) {
			f.IsActive = false
		})

		got, err := s.FormBySlug(ctx, active.PublicSlug)
		require.NoError(t, err)
		assert.Equal(t, active.ID, got.ID)

		_, err = s.FormBySlug(ctx, inactive.PublicSlug)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListForms(t *testing.T) {
	ctx := context.Background()

	t.Run("pages newest first with counts", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)

		base := time.Now().UTC().Add(-time.Hour)
		var forms []model.Form
		for i := 0; i < 5; i++ {
			created := base.Add(time.Duration(i) * time.Minute)
			forms = append(forms, seedForm(t, s, owner.ID, func(f *model.Form) {
				f.CreatedAt = created
				f.UpdatedAt = created
			}))
		}
		seedResponse(t, s, forms[4].ID, time.Now().UTC())
		seedResponse(t, s, forms[4].ID, time.Now().UTC())

		page, total, err := s.ListForms(ctx, owner.ID, ListQuery{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page, 2)
		assert.Equal(t, forms[4].ID, page[0].ID)
		assert.Equal(t, 2, page[0].ResponseCount)
		assert.Equal(t, forms[3].ID, page[1].ID)
		assert.Equal(t, 0, page[1].ResponseCount)

		page, total, err = s.ListForms(ctx, owner.ID, ListQuery{Page: 3, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page, 1)
		assert.Equal(t, forms[0].ID, page[0].ID)
	})

	t.Run("search matches title and description", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		seedForm(t, s, owner.ID, func(f *model.Form) {
			f.Title = "Lunch menu feedback"
		})
		seedForm(t, s, owner.ID, func(f *model.Form) {
			f.Title = "Event survey"
			f.Description = "post-lunch event"
		})
		seedForm(t, s, owner.ID, func(f *model.Form) {
			f.Title = "Unrelated"
		})

		page, total, err := s.ListForms(ctx, owner.ID, ListQuery{Page: 1, Limit: 10, Search: "lunch"})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, page, 2)
	})

	t.Run("search treats LIKE wildcards literally", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		seedForm(t, s, owner.ID, func(f *model.Form) {
			f.Title = "100% satisfaction"
		})
		seedForm(t, s, owner.ID, func(f *model.Form) {
			f.Title = "100 percent satisfaction"
		})

		_, total, err := s.ListForms(ctx, owner.ID, ListQuery{Page: 1, Limit: 10, Search: "100%"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("excludes other owners", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		other := seedUser(t, s)
		seedForm(t, s, owner.ID)
		seedForm(t, s, other.ID)

		page, total, err := s.ListForms(ctx, owner.ID, ListQuery{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, page, 1)
	})
}

func TestUpdateForm(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only provided fields", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		title := "  Renamed form  "
		inactive := false
		got, err := s.UpdateForm(ctx, created.ID, owner.ID, FormUpdate{
			Title:    &title,
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed form", got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.False(t, got.IsActive)
	})

	t.Run("missing form", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)

		title := "whatever"
		_, err := s.UpdateForm(ctx, uuid.NewString(), owner.ID, FormUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other owner cannot update", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		other := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		title := "hijacked"
		_, err := s.UpdateForm(ctx, created.ID, other.ID, FormUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := s.FormByID(ctx, created.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, got.Title)
	})
}

func TestDeleteForm(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the form and its responses", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		created := seedForm(t, s, owner.ID)
		seedResponse(t, s, created.ID, time.Now().UTC())
		seedResponse(t, s, created.ID, time.Now().UTC())

		require.NoError(t, s.DeleteForm(ctx, created.ID, owner.ID))

		_, err := s.FormByID(ctx, created.ID, owner.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		count, err := s.ResponseCount(ctx, created.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("other owner cannot delete", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		other := seedUser(t, s)
		created := seedForm(t, s, owner.ID)

		assert.ErrorIs(t, s.DeleteForm(ctx, created.ID, other.ID), ErrNotFound)

		_, err := s.FormByID(ctx, created.ID, owner.ID)
		assert.NoError(t, err)
	})
}

func TestResponses(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip preserves answers and metadata", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		form := seedForm(t, s, owner.ID)
		created := model.Response{
			ID:     uuid.NewString(),
			FormID: form.ID,
			Answers: []model.Answer{
				{QuestionID: "q1", Answer: model.ScalarAnswer("Fine")},
				{QuestionID: "q2", Answer: model.ListAnswer("Good", "Bad")},
			},
			Metadata: model.ResponseMetadata{
				UserAgent:            "Mozilla/5.0",
				SourceAddress:        "198.51.100.3",
				SubmissionDurationMs: 61500,
			},
			SubmittedAt: time.Now().UTC(),
		}
		require.NoError(t, s.CreateResponse(ctx, created))

		all, err := s.AllResponses(ctx, form.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, created.Answers, all[0].Answers)
		assert.Equal(t, created.Metadata, all[0].Metadata)
	})

	t.Run("pages newest first", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		form := seedForm(t, s, owner.ID)

		base := time.Now().UTC().Add(-time.Hour)
		var ids []string
		for i := 0; i < 5; i++ {
			resp := seedResponse(t, s, form.ID, base.Add(time.Duration(i)*time.Minute))
			ids = append(ids, resp.ID)
		}

		page, err := s.Responses(ctx, form.ID, ResponseQuery{Page: 1, Limit: 3})
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, ids[4], page[0].ID)
		assert.Equal(t, ids[2], page[2].ID)

		page, err = s.Responses(ctx, form.ID, ResponseQuery{Page: 2, Limit: 3})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, ids[0], page[1].ID)
	})

	t.Run("date range filter", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		form := seedForm(t, s, owner.ID)

		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 4; i++ {
			seedResponse(t, s, form.ID, base.AddDate(0, 0, i))
		}

		start := base.AddDate(0, 0, 1)
		end := base.AddDate(0, 0, 2)
		q := ResponseQuery{Page: 1, Limit: 10, StartDate: &start, EndDate: &end}

		page, err := s.Responses(ctx, form.ID, q)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		total, err := s.CountResponses(ctx, form.ID, q)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("scoped to the form", func(t *testing.T) {
		s := newTestStore(t)
		owner := seedUser(t, s)
		formA := seedForm(t, s, owner.ID)
		formB := seedForm(t, s, owner.ID)
		seedResponse(t, s, formA.ID, time.Now().UTC())

		count, err := s.ResponseCount(ctx, formA.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = s.ResponseCount(ctx, formB.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip by email and id", func(t *testing.T) {
		s := newTestStore(t)
		created := seedUser(t, s)

		byEmail, err := s.UserByEmail(ctx, created.Email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
		assert.Equal(t, created.PasswordHash, byEmail.PasswordHash)
		assert.False(t, byEmail.Verified)

		byID, err := s.UserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newTestStore(t)
		created := seedUser(t, s)

		clash := model.User{
			ID:           uuid.NewString(),
			Email:        created.Email,
			PasswordHash: []byte("other"),
			BusinessName: "Other Biz",
			CreatedAt:    time.Now().UTC(),
		}
		assert.ErrorIs(t, s.CreateUser(ctx, clash), ErrDuplicate)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.UserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("mark verified", func(t *testing.T) {
		s := newTestStore(t)
		created := seedUser(t, s)

		require.NoError(t, s.MarkVerified(ctx, created.Email))
		got, err := s.UserByEmail(ctx, created.Email)
		require.NoError(t, err)
		assert.True(t, got.Verified)

		assert.ErrorIs(t, s.MarkVerified(ctx, "nobody@example.com"), ErrNotFound)
	})
}
