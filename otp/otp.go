// Package otp keeps the time-bounded, attempt-limited one-time
// passcodes used for email verification. Records live in an explicit
// store keyed by email address, never in ambient global state; each
// entry is evicted on success, expiry, or attempt-limit breach.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// MaxAttempts caps failed verifications per record before the record
// is invalidated and removed.
const MaxAttempts = 3

const codeDigits = 6

var (
	ErrNotFound        = errors.New("otp: no code requested for this email")
	ErrExpired         = errors.New("otp: code expired")
	ErrTooManyAttempts = errors.New("otp: too many failed attempts")
	ErrMismatch        = errors.New("otp: invalid code")
)

type record struct {
	code      string
	expiresAt time.Time
	attempts  int
}

type Store struct {
	mu      sync.Mutex
	byEmail map[string]record
	ttl     time.Duration

	now func() time.Time // swapped in tests
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		byEmail: make(map[string]record),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a fresh passcode for the email, replacing any
// outstanding one, and returns the code with its expiry.
func (s *Store) Issue(email string) (code string, expiresAt time.Time, err error) {
	code, err = generateCode()
	if err != nil {
		return "", time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt = s.now().Add(s.ttl)
	s.byEmail[email] = record{code: code, expiresAt: expiresAt}
	return code, expiresAt, nil
}

// Verify checks the submitted code. The record is removed on success,
// on expiry, and once the failed-attempt limit is reached.
func (s *Store) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byEmail[email]
	if !ok {
		return ErrNotFound
	}

	if s.now().After(rec.expiresAt) {
		delete(s.byEmail, email)
		return ErrExpired
	}

	if rec.code != code {
		rec.attempts++
		if rec.attempts >= MaxAttempts {
			delete(s.byEmail, email)
			return ErrTooManyAttempts
		}
		s.byEmail[email] = rec
		return ErrMismatch
	}

	delete(s.byEmail, email)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
