// Package slug generates the opaque public tokens that expose forms to
// anonymous respondents.
package slug

import (
	"context"
	"crypto/rand"
	"errors"
)

// Alphabet is URL-safe so slugs can sit directly in a path segment.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const Length = 8

const maxAttempts = 5

// ErrExhausted means every generated candidate collided with an
// existing slug.
var ErrExhausted = errors.New("slug: generation attempts exhausted")

// New returns a random token of n characters from Alphabet.
func New(n int) (string, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	if err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf), nil
}

// Generate produces a slug that is unique according to the taken probe,
// retrying a bounded number of times before giving up with ErrExhausted.
func Generate(ctx context.Context, taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate, err := New(Length)
		if err != nil {
			return "", err
		}

		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
