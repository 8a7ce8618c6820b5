package repo

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
)

// Registration codes are 8 uppercase alphanumerics, short enough for manual
// entry at the door. Unique per registration.
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// codeAttempts bounds the collision probe; the registration_code unique
	// index remains the final arbiter.
	codeAttempts = 5
)

// NewRegistrationCode generates a random registration code. Uniqueness is
// enforced at the store level; callers within a transaction should use
// freshCode to probe for collisions before inserting.
func NewRegistrationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// freshCode returns a code not currently present in registrations, probing
// inside the given transaction so the subsequent insert sees the same state.
func freshCode(ctx context.Context, tx *sql.Tx) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := NewRegistrationCode()
		if err != nil {
			return "", err
		}

		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM registrations WHERE registration_code = $1)`, code,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to probe registration code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique registration code after %d attempts", codeAttempts)
}
