package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// --- Context Keys ---

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const AdvisorIDKey contextKey = "advisorID"

const issuer = "advisorchat-backend"

var ErrMissingAdvisor = errors.New("token has no advisor_id claim")

// --- JWT Claims ---

// CustomClaims includes standard JWT claims plus the advisor identity.
type CustomClaims struct {
	AdvisorID string `json:"advisor_id"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a new JWT access token for an advisor.
func NewAccessToken(advisorID string, jwtSecret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		AdvisorID: advisorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   advisorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token for advisor %s: %w", advisorID, err)
	}
	return signedToken, nil
}

// ParseToken validates an HMAC-signed token and returns its claims.
// Errors wrap the jwt sentinels (jwt.ErrTokenExpired, jwt.ErrTokenMalformed, ...).
func ParseToken(tokenString string, jwtSecret string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if strings.TrimSpace(claims.AdvisorID) == "" {
		return nil, ErrMissingAdvisor
	}
	return claims, nil
}
