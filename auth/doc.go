// Package auth implements the stateless bearer-token authentication core for
// the asset tracking backend: HMAC-SHA256 token issuance and validation, the
// request guards that gate handlers by role, and the login/logout flow.
//
// Authentication is fully stateless. A principal is rebuilt from the token's
// own claims on every request with no database round-trip, which means role or
// active-status changes made after a token was issued do not take effect until
// the token expires and a new one is issued. For the same reason logout cannot
// revoke an outstanding token; it only records the audit event. Both are
// intentional properties of the design, not bugs.
//
// The signing secret is injected at construction and held nowhere else.
// Rotating it invalidates every previously issued token at once; there is no
// grace window.
package auth
