package utils // package utils provides helper functions for token creation

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed JWT access token together with its expiry.
// Tokens are short-lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a student (or an
// administrator, when role is "ADMIN"). The claims are the standard
// subject (sub), role, expiration (exp) and issued at (iat); sub holds
// the student's numeric id.
func NewAccessToken(secret string, studentID uint64, role string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  studentID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
