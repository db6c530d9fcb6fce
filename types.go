package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// PendingRegistration is a registration that has not been activated yet. It
// only ever exists inside a signed activation ticket; the raw password is
// hashed at activation time, not before.
type PendingRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionTokens is the pair issued on login. Each token is independently
// signed and carries its own expiry in the claims.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// ActivationCodec mints and verifies activation tickets.
type ActivationCodec interface {
	Issue(pending PendingRegistration) (token string, code string, err error)
	Verify(token, code string) (PendingRegistration, error)
}

// PasswordHasher hashes and verifies user credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

// SessionOpener issues session tokens for a verified user.
type SessionOpener interface {
	OpenSession(ctx context.Context, user *User) (SessionTokens, error)
	RevokeSession(ctx context.Context, userID string) error
}

// UserStore is the authoritative persistent record of accounts. ByEmail
// returns ErrIdentityNotFound when no account matches. Register must enforce
// email uniqueness and surface violations as ErrDuplicateAccount; the
// orchestrator's own duplicate check before token issuance is advisory only.
type UserStore interface {
	ByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
}

// SessionCache is the advisory key-value store holding user snapshots for
// fast session lookups. It is never the source of truth.
type SessionCache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

// Mail is an outbound transactional email.
type Mail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer dispatches transactional email. A failed send during registration
// aborts the registration response.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
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
