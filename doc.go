// Package auth provides bearer token session management backed by a
// relational store: user accounts, opaque access/refresh token pairs,
// and the HTTP surface to issue, validate, and revoke them.
//
// Entity lifecycle:
//   - Users and Tokens carry created/updated/deleted timestamps that are
//     stamped automatically on insert and update via Bun model hooks.
//   - Deletes are soft by default: rows get a deleted_at stamp and drop
//     out of every normal read while staying behind as an audit trail.
//     Token removal is the exception, spent pairs are hard deleted.
//
// Session flows:
//   - SessionIssuer implements login, logout, and refresh. Refresh
//     rotates the pair inside a single transaction so a stale refresh
//     token can only ever be spent once.
//   - TokenAuthenticator is the per-request decision engine. It parses
//     the Authorization header, resolves the token and its owner in one
//     read, and checks expiry lazily against an injectable clock.
//
// HTTP surface:
//   - RegisterAuthRoutes and RegisterUserRoutes mount the session and
//     account endpoints on a go-router instance. The tokenware
//     middleware guards protected routes and stores the authenticated
//     identity in the request context.
package auth
