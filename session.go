package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session token lifetimes. The same durations size the session
// cookies; expiry is also embedded in the signed claims so a captured token
// cannot outlive the cookie the server intended to set.
const (
	DefaultAccessTokenTTL  = 300 * time.Second
	DefaultRefreshTokenTTL = 1200 * time.Second
)

// sessionClaims binds a token to a user identity. The token kind is carried
// implicitly by which secret signed it.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// SessionIssuer mints access/refresh token pairs and snapshots the user into
// the session cache. The two secrets are independent so compromise of one
// does not by itself forge the other.
type SessionIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	cache         SessionCache
	now           func() time.Time
	logger        Logger
}

type SessionIssuerOption func(*SessionIssuer)

// WithSessionTTLs overrides the default access and refresh lifetimes.
// Non-positive values keep the defaults.
func WithSessionTTLs(access, refresh time.Duration) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// WithSessionClock overrides the time source used for issuance and
// verification.
func WithSessionClock(now func() time.Time) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionLogger overrides the default logger.
func WithSessionLogger(logger Logger) SessionIssuerOption {
	return func(s *SessionIssuer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSessionIssuer creates an issuer bound to the two signing secrets and the
// advisory session cache.
func NewSessionIssuer(accessSecret, refreshSecret []byte, cache SessionCache, opts ...SessionIssuerOption) *SessionIssuer {
	s := &SessionIssuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     DefaultAccessTokenTTL,
		refreshTTL:    DefaultRefreshTokenTTL,
		cache:         cache,
		now:           time.Now,
		logger:        defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ SessionOpener = (*SessionIssuer)(nil)

// IssueAccessToken signs a short-lived access token for the user id.
func (s *SessionIssuer) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken signs a longer-lived refresh token for the user id.
func (s *SessionIssuer) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, s.refreshSecret, s.refreshTTL)
}

// AccessTokenTTL reports the configured access token lifetime, used by the
// transport layer to size cookies.
func (s *SessionIssuer) AccessTokenTTL() time.Duration { return s.accessTTL }

// RefreshTokenTTL reports the configured refresh token lifetime.
func (s *SessionIssuer) RefreshTokenTTL() time.Duration { return s.refreshTTL }

// OpenSession mints both tokens and writes the serialized user snapshot into
// the cache keyed by user id, overwriting any previous entry. The cache
// write is best-effort: the cache is advisory, so a failed write is logged
// and never fails the login.
func (s *SessionIssuer) OpenSession(ctx context.Context, user *User) (SessionTokens, error) {
	access, err := s.IssueAccessToken(user.ID.String())
	if err != nil {
		return SessionTokens{}, err
	}

	refresh, err := s.IssueRefreshToken(user.ID.String())
	if err != nil {
		return SessionTokens{}, err
	}

	if err := s.cacheSnapshot(ctx, user); err != nil {
		s.logger.Warn("session cache write failed for user %s: %v", user.ID.String(), err)
	}

	return SessionTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// RevokeSession removes the cached snapshot for the user. Logout does not
// call this; the hook exists so deployments can purge server-side state,
// decoupled from transport-layer cookie clearing.
func (s *SessionIssuer) RevokeSession(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, userID)
}

// VerifyAccessToken validates an access token and returns the embedded user
// id.
func (s *SessionIssuer) VerifyAccessToken(token string) (string, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns the embedded user
// id.
func (s *SessionIssuer) VerifyRefreshToken(token string) (string, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *SessionIssuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	issuedAt := s.now()
	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID: userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *SessionIssuer) verify(token string, secret []byte) (string, error) {
	claims := &sessionClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidSignature
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidSignature
	}

	return claims.UserID, nil
}

func (s *SessionIssuer) cacheSnapshot(ctx context.Context, user *User) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return err
	}
	// Snapshots are stored without expiration and overwritten on every login.
	return s.cache.Set(ctx, user.ID.String(), snapshot, 0)
}
