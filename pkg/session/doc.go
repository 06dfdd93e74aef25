// Package session owns the authentication lifecycle of the NutriHealth
// client: token acquisition, token-bearing request decoration, 401-triggered
// forced logout, and persisted session rehydration on cold start.
//
// # State machine
//
// The session status moves through three states:
//
//	                CheckAuth() [persisted token exists]
//	unauthenticated ───────────────────────────────────► checking
//	checking ── identity verified ──► authenticated
//	checking ── any failure ────────► unauthenticated (via Logout)
//	unauthenticated ── Login() ok ──► authenticated
//	authenticated ── Logout() / 401 detected ──► unauthenticated
//
// There is no terminal state; the manager lives for the whole process.
// Invariant: authenticated implies a non-empty token. CheckAuth never exits
// leaving the transient checking state set.
//
// # Wiring
//
// New installs the manager into the transport client as both the live token
// source and the 401 handler, so an expired session detected anywhere in the
// app tears the state down exactly once:
//
//	client := apiclient.New(cfg.BaseURL)
//	store := securestore.NewKeyring("nutrikit")
//	mgr := session.New(client, store)
//	mgr.CheckAuth(ctx) // before the first role-based routing decision
//
// # Persistence
//
// A JSON projection of the state (token, user, status, plus staged form
// drafts) is written to the credential store on every mutating transition
// and read exactly once, by CheckAuth. Storage failures degrade to a fresh
// login on the next start; they are never surfaced to screens.
//
// # Failure surface
//
// Operations return booleans and store a short user-facing message
// (retrievable via Err) instead of propagating transport errors. Login
// failures always store the generic MsgInvalidCredentials so the error text
// cannot reveal whether an email is registered.
package session
