package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(id uuid.UUID) *Claims {
	return &Claims{
		Email:        "educator@example.com",
		UserMetadata: map[string]interface{}{"full_name": "Анна Петрова"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    "https://auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify(t *testing.T) {
	id := uuid.New()
	v := NewVerifier(testSecret, "https://auth.example.com")

	identity, err := v.Verify("Bearer " + sign(t, testSecret, validClaims(id)))
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
	assert.Equal(t, "educator@example.com", identity.Email)
	assert.Equal(t, "Анна Петрова", identity.DisplayName())
}

func TestVerify_Rejects(t *testing.T) {
	id := uuid.New()
	v := NewVerifier(testSecret, "https://auth.example.com")

	expired := validClaims(id)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims(id)
	wrongIssuer.Issuer = "https://evil.example.com"

	noExpiry := validClaims(id)
	noExpiry.ExpiresAt = nil

	badSubject := validClaims(id)
	badSubject.Subject = "not-a-uuid"

	tests := map[string]string{
		"empty":        "",
		"garbage":      "abc.def.ghi",
		"wrong secret": sign(t, "another-secret-another-secret-123", validClaims(id)),
		"expired":      sign(t, testSecret, expired),
		"wrong issuer": sign(t, testSecret, wrongIssuer),
		"no expiry":    sign(t, testSecret, noExpiry),
		"bad subject":  sign(t, testSecret, badSubject),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_IssuerOptional(t *testing.T) {
	id := uuid.New()
	claims := validClaims(id)
	claims.Issuer = ""

	identity, err := NewVerifier(testSecret, "").Verify(sign(t, testSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
}
