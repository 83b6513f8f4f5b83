// Package identity проверяет токены внешнего провайдера идентификации.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
)

var ErrInvalidToken = errors.New("identity: недействительный токен")

// Claims клеймы токена провайдера.
type Claims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier проверяет подпись HS256 и срок действия токена.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier создаёт проверяющего. Пустой issuer не проверяется.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify возвращает аккаунт, которому выдан токен.
func (v *Verifier) Verify(token string) (*entity.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный sub", ErrInvalidToken)
	}

	return &entity.Identity{
		ID:       id,
		Email:    claims.Email,
		Metadata: claims.UserMetadata,
	}, nil
}
