// Package apiclient is the HTTP transport layer of the NutriHealth client.
//
// A single long-lived Client instance carries every exchange with the
// backend. Two decoration points wrap each request:
//
//   - Outbound: the current bearer token is read from a TokenSource callback
//     on every request and attached as "Authorization: Bearer <token>",
//     unless the target is a public endpoint (the credential exchange route,
//     or account creation via POST on the users collection). Reading the
//     token live matters because the client outlives token rotation.
//   - Inbound: a 401 response to a request that was not itself public fires
//     the AuthFailureHandler callback (the session manager's Logout) before
//     the error is returned to the caller. The caller always receives the
//     error; requests are never silently retried.
//
// Both callbacks are explicit dependencies injected by the session layer,
// keeping the transport testable in isolation with a fake session provider.
//
// Failures are classified three ways: ErrNetwork (no response within the
// fixed timeout), *Error (an HTTP error response with its optional backend
// `detail` message), and ErrDecode (a 2xx response whose body did not match
// the expected shape).
package apiclient
