package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"internhub_backend/internals/constants"
)

// clock skew tolerated on exp
const expSkew = 30 * time.Second

type SessionClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      constants.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueAccessToken signs an HS256 access token.
func IssueAccessToken(secret string, userID uuid.UUID, email string, role constants.Role, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"typ":   "access",
		"sub":   userID.String(),
		"id":    userID.String(),
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		// unique per issue so two sign-ins in the same second differ
		"jti": uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken verifies signature, type and expiry against now.
func ParseAccessToken(secret, raw string, now time.Time) (*SessionClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		return nil, fmt.Errorf("not an access token")
	}

	exp, err := unixClaim(claims, "exp")
	if err != nil {
		return nil, err
	}
	if now.After(exp.Add(expSkew)) {
		return nil, fmt.Errorf("token expired at %v", exp)
	}

	idRaw, _ := claims["id"].(string)
	userID, err := uuid.Parse(strings.TrimSpace(idRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	out := &SessionClaims{UserID: userID, ExpiresAt: exp}
	out.Email, _ = claims["email"].(string)
	if role, ok := claims["role"].(string); ok {
		out.Role = constants.Role(role)
	}
	if iat, err := unixClaim(claims, "iat"); err == nil {
		out.IssuedAt = iat
	}
	return out, nil
}

func unixClaim(claims jwt.MapClaims, key string) (time.Time, error) {
	switch v := claims[key].(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("token has no %s", key)
	}
}

// HashToken is the blacklist key of a raw token: hex HMAC-SHA256 with the
// signing secret, so leaked rows cannot be replayed.
func HashToken(raw, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}
