// Package auth implements the EduSync account activation and session
// lifecycle engine.
//
// Registration is stateless: a pending registration (name, email, raw
// password) is never persisted. Instead it travels inside a signed,
// ten-minute activation ticket together with a 4-digit confirmation code.
// Only a successful Activate call hashes the password and inserts the user
// record, so horizontally scaled instances need no shared pending table.
//
// Login issues a pair of JWTs signed with independent secrets: a short-lived
// access token and a longer-lived refresh token. On every login the issuer
// also snapshots the user into an external cache keyed by user id. The cache
// is advisory, not the system of record; writes are best-effort and failures
// are logged, never propagated to the caller.
//
// The HTTP surface (fiber controller), SMTP dispatcher, and bun-backed user
// store are thin collaborators around the engine; each is replaceable through
// the interfaces in types.go.
package auth
