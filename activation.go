package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActivationTicketTTL is the absolute lifetime of an activation ticket,
// measured from issuance.
const ActivationTicketTTL = 10 * time.Minute

// activationClaims is the signed ticket payload. The confirmation code is
// embedded alongside the pending registration so the token stays
// self-verifying while the caller can still display the code without
// re-parsing it.
type activationClaims struct {
	jwt.RegisteredClaims
	User           PendingRegistration `json:"user"`
	ActivationCode string              `json:"activationCode"`
}

// TicketCodec mints and verifies activation tickets signed with a
// process-wide secret. Pending registrations live only inside the ticket;
// there is no server-side pending table to coordinate across instances.
type TicketCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger Logger
}

type TicketCodecOption func(*TicketCodec)

// WithTicketTTL overrides the default ten-minute ticket lifetime.
func WithTicketTTL(ttl time.Duration) TicketCodecOption {
	return func(c *TicketCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithTicketClock overrides the time source used for issuance and expiry
// checks.
func WithTicketClock(now func() time.Time) TicketCodecOption {
	return func(c *TicketCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTicketLogger overrides the default logger.
func WithTicketLogger(logger Logger) TicketCodecOption {
	return func(c *TicketCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewTicketCodec creates a codec bound to the given signing secret.
func NewTicketCodec(secret []byte, opts ...TicketCodecOption) *TicketCodec {
	c := &TicketCodec{
		secret: secret,
		ttl:    ActivationTicketTTL,
		now:    time.Now,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ ActivationCodec = (*TicketCodec)(nil)

// Issue signs pending into a compact activation ticket and returns it with
// the generated 4-digit confirmation code. The code is returned separately
// so the caller can email it without touching the token.
func (c *TicketCodec) Issue(pending PendingRegistration) (string, string, error) {
	code, err := newActivationCode()
	if err != nil {
		return "", "", err
	}

	issuedAt := c.now()
	claims := &activationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
		User:           pending,
		ActivationCode: code,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", err
	}

	return token, code, nil
}

// Verify checks the signature, expiry, and confirmation code of a ticket and
// returns the embedded pending registration. Expiry is checked before the
// code so a stale ticket with the right code still reads as expired.
func (c *TicketCodec) Verify(token, code string) (PendingRegistration, error) {
	claims := &activationClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			c.logger.Error("activation ticket with unexpected signing method: %v", t.Header["alg"])
			return nil, ErrInvalidSignature
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return PendingRegistration{}, ErrTicketExpired
		}
		// Signature failures and structurally broken tokens are
		// indistinguishable to the caller: any tampered byte lands here.
		return PendingRegistration{}, ErrInvalidSignature
	}

	if !parsed.Valid {
		return PendingRegistration{}, ErrInvalidSignature
	}

	if claims.ActivationCode != code {
		return PendingRegistration{}, ErrCodeMismatch
	}

	return claims.User, nil
}

// newActivationCode draws a uniform random 4-digit decimal code in
// [1000, 9999]. Leading-zero codes are never produced.
func newActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(1000+n.Int64(), 10), nil
}
