package auth

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the auth components need. The
// application wires an slog-backed implementation; defLogger keeps the
// package usable without one.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserRecord is the credential row the login flow verifies against. It is
// read-only to this package; accounts are created and managed out of band.
type UserRecord struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	Role         UserRole
	PasswordHash string
	Active       bool
}

// CredentialStore looks up login credentials. When no active user matches,
// implementations return (nil, nil) or a not-found error; either way the
// caller collapses the miss into the same failure as a bad password.
type CredentialStore interface {
	FindActiveByUsername(ctx context.Context, username string) (*UserRecord, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
