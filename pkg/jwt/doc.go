// Package jwt provides client-side, signature-blind inspection of JSON Web
// Tokens.
//
// The NutriHealth backend hands the app an opaque bearer token on login. The
// client never validates the token (it cannot, since the signing key lives
// on the server) but it does need the subject identifier
// embedded in the payload to know which /users/{id}/ resource to fetch next.
// This package decodes the middle base64url segment of a three-segment token
// as JSON and exposes the handful of claims the client reads.
//
// # Usage
//
//	id, ok := jwt.ExtractSubject(token)
//	if !ok {
//	    // treat as "no session"
//	}
//
// ExtractSubject tolerates every malformed shape (wrong segment count,
// non-base64 content, non-JSON payload, missing fields) by returning
// ("", false); it never panics. Callers must treat the result as advisory:
// the backend is the sole authority on whether a token is valid.
package jwt
