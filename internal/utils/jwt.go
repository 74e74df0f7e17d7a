package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// ErrInvalidToken is returned by ParsePrincipal for any malformed,
// expired or unverifiable token. Verification fails closed: callers
// never receive a partial or guessed principal.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT along with its expiry. The
// Token field contains the serialized JWT string; Exp stores the UTC
// expiration time. The token is transported to browsers in the
// `token` cookie.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT for a member. The JWT
// carries the subject (sub = member id), the display name, the role,
// the expiration (exp) and issued-at (iat) claims. ttlMin controls the
// token lifetime in minutes.
func NewAccessToken(secret string, memberID uint64, name, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  memberID,
		"name": name,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParsePrincipal verifies a serialized token and extracts the
// principal it identifies. Only HMAC-signed tokens are accepted; any
// other signing method, a bad signature, missing claims or an expired
// token yield ErrInvalidToken. The function is stateless and consults
// nothing beyond the token and the secret.
func ParsePrincipal(secret, raw string) (model.Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JSON numbers decode as float64
	if !ok || sub <= 0 {
		return model.Principal{}, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	role, ok := claims["role"].(string)
	if !ok || (role != model.RoleMember && role != model.RoleAdmin) {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{MemberID: uint64(sub), Name: name, Role: role}, nil
}
