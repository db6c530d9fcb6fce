package auth_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	auth "github.com/Harsh3341/edusync-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPending = auth.PendingRegistration{
	Name:     "Ada",
	Email:    "a@x.com",
	Password: "secret1",
}

func TestTicketCodecRoundTrip(t *testing.T) {
	codec := auth.NewTicketCodec([]byte("activation-secret"))

	token, code, err := codec.Issue(testPending)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, code, 4)

	pending, err := codec.Verify(token, code)
	require.NoError(t, err)
	assert.Equal(t, testPending, pending)
}

func TestTicketCodecCodeMismatch(t *testing.T) {
	codec := auth.NewTicketCodec([]byte("activation-secret"))

	token, code, err := codec.Issue(testPending)
	require.NoError(t, err)

	wrong := "1234"
	if wrong == code {
		wrong = "4321"
	}

	_, err = codec.Verify(token, wrong)
	assert.Equal(t, auth.ErrCodeMismatch, err)
}

func TestTicketCodecExpiryBoundary(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issued

	codec := auth.NewTicketCodec([]byte("activation-secret"),
		auth.WithTicketClock(func() time.Time { return now }),
	)

	token, code, err := codec.Issue(testPending)
	require.NoError(t, err)

	t.Run("valid one second before expiry", func(t *testing.T) {
		now = issued.Add(9*time.Minute + 59*time.Second)
		_, err := codec.Verify(token, code)
		assert.NoError(t, err)
	})

	t.Run("expired past ten minutes", func(t *testing.T) {
		now = issued.Add(10*time.Minute + time.Second)
		_, err := codec.Verify(token, code)
		assert.Equal(t, auth.ErrTicketExpired, err)
	})

	t.Run("expired long after", func(t *testing.T) {
		now = issued.Add(24 * time.Hour)
		_, err := codec.Verify(token, code)
		assert.Equal(t, auth.ErrTicketExpired, err)
	})
}

func TestTicketCodecTamperedToken(t *testing.T) {
	codec := auth.NewTicketCodec([]byte("activation-secret"))

	token, code, err := codec.Issue(testPending)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{
			name: "flipped payload byte",
			mutate: func(tok string) string {
				parts := strings.Split(tok, ".")
				payload := []byte(parts[1])
				if payload[0] == 'A' {
					payload[0] = 'B'
				} else {
					payload[0] = 'A'
				}
				parts[1] = string(payload)
				return strings.Join(parts, ".")
			},
		},
		{
			name: "truncated signature",
			mutate: func(tok string) string {
				return tok[:len(tok)-2]
			},
		},
		{
			name: "not a token at all",
			mutate: func(tok string) string {
				return "not.a.jwt"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.mutate(token), code)
			assert.Equal(t, auth.ErrInvalidSignature, err)
		})
	}
}

func TestTicketCodecWrongSecret(t *testing.T) {
	codec := auth.NewTicketCodec([]byte("activation-secret"))
	other := auth.NewTicketCodec([]byte("different-secret"))

	token, code, err := codec.Issue(testPending)
	require.NoError(t, err)

	_, err = other.Verify(token, code)
	assert.Equal(t, auth.ErrInvalidSignature, err)
}

func TestActivationCodeRange(t *testing.T) {
	codec := auth.NewTicketCodec([]byte("activation-secret"))

	// Codes come from [1000, 9999]; leading-zero codes must never appear.
	for i := 0; i < 200; i++ {
		_, code, err := codec.Issue(testPending)
		require.NoError(t, err)
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}
