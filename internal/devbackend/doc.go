// Package devbackend is an in-memory stand-in for the castkeeper REST
// backend. It serves the same routes, envelopes and status codes as the real
// service so the client can be exercised end to end without one: accounts
// live in a map, passwords are bcrypt hashes, tokens are HS256 JWTs and
// one-time codes are written to the log instead of being mailed.
package devbackend
