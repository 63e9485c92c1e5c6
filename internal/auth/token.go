package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OperatorTokenTTL is the lifetime of tokens issued to feed pollers and
// dispatch operators.
const OperatorTokenTTL = 12 * time.Hour

var ErrEmptyOperatorID = errors.New("operator id required")

type Claims struct {
	OperatorID string `json:"operator_id"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 bearer token for operatorID.
func SignToken(secret, operatorID string, ttl time.Duration) (string, error) {
	if operatorID == "" {
		return "", ErrEmptyOperatorID
	}
	now := time.Now()
	claims := Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
