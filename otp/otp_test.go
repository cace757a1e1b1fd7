package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIssue(t *testing.T) {
	store := NewStore(10 * time.Minute)

	t.Run("produces a six digit code", func(t *testing.T) {
		code, expiresAt, err := store.Issue("a@example.com")
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^\d{6}$`, code)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, time.Second)
	})

	t.Run("replaces an outstanding code", func(t *testing.T) {
		first, _, err := store.Issue("b@example.com")
		require.NoError(t, err)
		_, _, err = store.Issue("b@example.com")
		require.NoError(t, err)

		// The superseded code no longer verifies, unless the fresh
		// one happens to collide with it.
		err = store.Verify("b@example.com", first)
		if err != nil {
			assert.ErrorIs(t, err, ErrMismatch)
		}
	})
}

func TestStoreVerify(t *testing.T) {
	t.Run("success removes the record", func(t *testing.T) {
		store := NewStore(10 * time.Minute)
		code, _, err := store.Issue("a@example.com")
		require.NoError(t, err)

		require.NoError(t, store.Verify("a@example.com", code))
		assert.ErrorIs(t, store.Verify("a@example.com", code), ErrNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		store := NewStore(10 * time.Minute)
		assert.ErrorIs(t, store.Verify("nobody@example.com", "123456"), ErrNotFound)
	})

	t.Run("expired code is evicted", func(t *testing.T) {
		store := NewStore(10 * time.Minute)
		code, _, err := store.Issue("a@example.com")
		require.NoError(t, err)

		store.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
		assert.ErrorIs(t, store.Verify("a@example.com", code), ErrExpired)

		store.now = time.Now
		assert.ErrorIs(t, store.Verify("a@example.com", code), ErrNotFound)
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		store := NewStore(10 * time.Minute)
		code, _, err := store.Issue("a@example.com")
		require.NoError(t, err)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		assert.ErrorIs(t, store.Verify("a@example.com", wrong), ErrMismatch)
		assert.ErrorIs(t, store.Verify("a@example.com", wrong), ErrMismatch)
		assert.ErrorIs(t, store.Verify("a@example.com", wrong), ErrTooManyAttempts)

		// Record is gone, even for the right code.
		assert.ErrorIs(t, store.Verify("a@example.com", code), ErrNotFound)
	})

	t.Run("success still possible before the attempt limit", func(t *testing.T) {
		store := NewStore(10 * time.Minute)
		code, _, err := store.Issue("a@example.com")
		require.NoError(t, err)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		assert.ErrorIs(t, store.Verify("a@example.com", wrong), ErrMismatch)
		assert.ErrorIs(t, store.Verify("a@example.com", wrong), ErrMismatch)
		assert.NoError(t, store.Verify("a@example.com", code))
	})
}
