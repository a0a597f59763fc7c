// Package session holds the client-side authentication session: the bearer
// token and the signed-in user's profile.
//
// # Invariant
//
// IsAuthenticated is true exactly when a user is set. SetUser and SignIn
// always establish authentication; Clear drops token and user together.
// Every mutation happens under one lock, so readers never observe a user
// without authentication or a half-cleared session.
//
// # Persistence
//
// A Store mirrors every mutation into a Persister (SQLite metadata table,
// Redis, or memory) so the session survives restarts. Restore rehydrates it
// at start-up and Clear purges the persisted copy. Persister failures are
// logged; the in-memory state stays authoritative.
package session
