// Package vend is a client for the airtime and data vending API. It owns the
// persisted session, the authenticated request pipeline, and the response
// envelope handling shared by every feature call.
//
// Session:
//   - SessionStore holds the bearer token and the cached user record. Values
//     are loaded from a Storage once and written through on every change.
//     Storage backends include memory, a JSON file, a SQL table
//     (storage/bunstore) and browser cookies (web).
//   - The store carries an epoch that advances whenever the token changes or
//     is cleared. Writes that depend on a previous request use
//     SetUserIfCurrent so a late response never repopulates a cleared or
//     replaced session.
//
// Request pipeline:
//   - Call attaches the token as a bearer credential, tags the request with
//     an X-Request-ID, and decodes the body according to the endpoint
//     Envelope.
//   - A 401 clears the session and navigates to the login entry point through
//     the configured Navigator before the error is returned to the caller.
//   - A response that completes after the session changed is discarded with
//     ErrStaleSession.
//
// Responses:
//   - NormalizeResponse and NormalizeJSON unwrap the {success, data} envelope
//     and its paginated variant. Bodies that match neither pass through.
//   - ExtractErrorMessage turns any failure into a user facing message.
package vend
