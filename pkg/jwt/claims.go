package jwt

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Claims holds the payload fields the client cares about. The backend issues
// tokens with a `user_id` claim; `sub` is accepted as a fallback for
// compatibility with standard-issue tokens.
type Claims struct {
	UserID    string `json:"user_id,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// DecodeClaims decodes the payload segment of a bearer token WITHOUT verifying
// its signature. The result is advisory only: it tells the client which
// identity resource to fetch next, never whether the token is trustworthy.
// The backend remains the sole authority on token validity.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedToken
	}

	return &claims, nil
}

// ExtractSubject returns a best-effort subject identifier from the token
// payload, checking `user_id` first and `sub` second. Malformed input of any
// kind (wrong segment count, non-base64 content, non-JSON payload, missing
// fields) yields ("", false) rather than an error or a panic.
func ExtractSubject(token string) (string, bool) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return "", false
	}

	if claims.UserID != "" {
		return claims.UserID, true
	}
	if claims.Subject != "" {
		return claims.Subject, true
	}

	return "", false
}

// base64URLDecode decodes base64url-encoded data, restoring padding as needed.
// JWT tokens omit padding per RFC 7515, but Go's decoder requires it.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}

	return base64.URLEncoding.DecodeString(s)
}
