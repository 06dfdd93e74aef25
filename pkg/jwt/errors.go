package jwt

import "errors"

var (
	ErrMalformedToken = errors.New("jwt: malformed token")
)
