// Package client is the castkeeper API gateway: one HTTP client through which
// every backend call flows.
//
// # Overview
//
//  1. Client lists the REST endpoints the screens use (auth, profile).
//  2. HTTPClient implements it over net/http. Before dispatch it asks its
//     TokenSource (the session store) for a bearer token and attaches it,
//     and tags the request with an X-Request-ID.
//  3. InitDatabase/RunMigrations bootstrap the local SQLite file that backs
//     the persisted session.
//
// # Error Handling
//
// Every transport or status failure is an *APIError carrying the HTTP status
// (0 for transport failures) and the backend's message when it sent one.
// APIError unwraps to ErrUnavailable, ErrUnauthorized, ErrForbidden or
// ErrRequestFailed, so callers can branch with errors.Is. The gateway never
// touches the session store; what a 403 on login means is the caller's call.
package client
