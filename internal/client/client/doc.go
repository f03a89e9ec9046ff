// Package client talks to the education-center REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport contract (Client) with one generic call, Do, plus the two
//     unauthenticated auth calls Login and RefreshTokens.
//  2. HTTPClient, the net/http implementation. It injects the bearer token,
//     tags each call with an X-Request-ID, encodes JSON or multipart bodies,
//     refreshes an expired access token once and maps responses to errors.
//  3. Error mapping: sentinel errors for transport and status classes,
//     APIError for backend rejections and Message for user-facing text.
//
// # Error Handling
//
// Callers match conditions with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrInvalidCredentials. A non-2xx response is an
// *APIError (use errors.As) that also unwraps to the matching sentinel.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context and is
// additionally bounded by the configured request timeout.
package client
