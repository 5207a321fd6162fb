// Package packagecode generates the human-readable package identifiers and
// their scannable encodings for newly created unassigned deliveries.
package packagecode

import (
	"context"
	"crypto/rand"
	"fmt"

	"medtrack/internal/apperr"
)

// Prefix is the fixed package code prefix.
const Prefix = "PKG-"

// suffixLen is the number of random base36 characters after the prefix.
const suffixLen = 12

// maxAttempts bounds regeneration on a repository collision.
const maxAttempts = 5

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Encoder produces an opaque scannable representation of a package code.
type Encoder interface {
	Encode(text string) ([]byte, error)
}

// codeIndex answers whether a package code is already taken.
type codeIndex interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Generator produces unique package codes together with their encoded
// form. Uniqueness is verified against the repository before a code is
// handed out.
type Generator struct {
	index   codeIndex
	encoder Encoder
}

// NewGenerator creates a Generator backed by the given code index and encoder.
func NewGenerator(index codeIndex, encoder Encoder) *Generator {
	return &Generator{index: index, encoder: encoder}
}

// Generate returns a fresh package code and its scannable encoding. A code
// that collides with an existing record is regenerated up to a small bound;
// an encoding failure aborts with an EncodingError so a delivery is never
// created with only one of the two fields.
func (g *Generator) Generate(ctx context.Context) (string, []byte, error) {
	var lastCode string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return "", nil, err
		}
		lastCode = code

		taken, err := g.index.CodeExists(ctx, code)
		if err != nil {
			return "", nil, fmt.Errorf("check package code: %w", err)
		}
		if taken {
			continue
		}

		encoded, err := g.encoder.Encode(code)
		if err != nil {
			return "", nil, &apperr.EncodingError{Err: err}
		}
		return code, encoded, nil
	}
	return "", nil, &apperr.DuplicatePackageCodeError{Code: lastCode}
}

// NewCode returns a random package code without consulting the repository.
func NewCode() (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	suffix := make([]byte, suffixLen)
	for i, b := range buf {
		suffix[i] = base36[int(b)%len(base36)]
	}
	return Prefix + string(suffix), nil
}
