package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

// MinSecretBytes is the minimum HS256 signing key length the codec accepts.
const MinSecretBytes = 32

// Claims is the application view of a decoded token. Optional claims decode
// to their zero value when absent.
type Claims struct {
	Subject       string
	PrincipalID   string
	PrincipalType string
	FirstName     string
	LastName      string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// Codec issues and verifies HS256 tokens with a single server-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec validates the signing secret up front so a weak key fails at
// startup rather than at request time.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", MinSecretBytes, len(secret))
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

type wireClaims struct {
	PrincipalID   string `json:"userId,omitempty"`
	PrincipalType string `json:"userType,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given principal. The subject is the account
// email; identity claims ride alongside the registered claims.
func (c *Codec) Issue(claims Claims) (string, error) {
	now := time.Now()

	wc := wireClaims{
		PrincipalID:   claims.PrincipalID,
		PrincipalType: claims.PrincipalType,
		FirstName:     claims.FirstName,
		LastName:      claims.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wc)

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "sign token")
	}

	return signed, nil
}

// Decode verifies the signature and expiry and returns the claims. Failures
// map onto the token error taxonomy so callers can branch on code.
func (c *Codec) Decode(raw string) (Claims, error) {
	wc := &wireClaims{}

	parsed, err := jwt.ParseWithClaims(raw, wc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if !parsed.Valid {
		return Claims{}, apperrors.ErrTokenMalformed
	}

	claims := Claims{
		Subject:       wc.Subject,
		PrincipalID:   wc.PrincipalID,
		PrincipalType: wc.PrincipalType,
		FirstName:     wc.FirstName,
		LastName:      wc.LastName,
	}
	if wc.IssuedAt != nil {
		claims.IssuedAt = wc.IssuedAt.Time
	}
	if wc.ExpiresAt != nil {
		claims.ExpiresAt = wc.ExpiresAt.Time
	}

	return claims, nil
}

// IsValid reports whether the token decodes cleanly, swallowing the reason.
func (c *Codec) IsValid(raw string) bool {
	_, err := c.Decode(raw)
	return err == nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(err, apperrors.ErrTokenExpired.Code, apperrors.ErrTokenExpired.Status, apperrors.ErrTokenExpired.Message)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(err, apperrors.ErrTokenSignature.Code, apperrors.ErrTokenSignature.Status, apperrors.ErrTokenSignature.Message)
	default:
		return apperrors.Wrap(err, apperrors.ErrTokenMalformed.Code, apperrors.ErrTokenMalformed.Status, apperrors.ErrTokenMalformed.Message)
	}
}
