package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// RequestMeta carries the request attributes the audit trail keeps.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// LoginResult is what a successful login hands back to the client: the signed
// token and the identity facts baked into it. The password hash never leaves
// the store.
type LoginResult struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

// Authenticator orchestrates the login/logout flow on top of the credential
// store and the token codec.
type Authenticator struct {
	store  CredentialStore
	codec  *TokenCodec
	audit  AuditRecorder
	logger Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store CredentialStore, codec *TokenCodec) *Authenticator {
	return &Authenticator{
		store:  store,
		codec:  codec,
		audit:  noopAuditRecorder{},
		logger: defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithAuditRecorder configures the audit hook invoked on login and logout.
func (a *Authenticator) WithAuditRecorder(recorder AuditRecorder) *Authenticator {
	a.audit = normalizeAuditRecorder(recorder)
	return a
}

// Login verifies the credentials and issues a token. Whether the username was
// unknown, inactive, or the password wrong, the caller gets the same
// ErrInvalidCredentials; nothing about the account leaks on failure.
func (a *Authenticator) Login(ctx context.Context, username, password string, meta RequestMeta) (*LoginResult, error) {
	user, err := a.store.FindActiveByUsername(ctx, username)
	if err != nil {
		if !errors.IsNotFound(err) {
			a.logger.Error("login credential lookup failed: %v", err)
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up credentials")
		}
		return nil, ErrInvalidCredentials
	}

	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("login password verification failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify credentials")
	}

	claims := NewClaims(user)
	token, err := a.codec.Encode(claims)
	if err != nil {
		a.logger.Error("login token signing failed: %v", err)
		return nil, err
	}

	a.record(ctx, AuditEntry{
		UserID:    user.ID,
		Action:    AuditActionLogin,
		TableName: "users",
		RecordID:  user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})

	return &LoginResult{Token: token, User: principalFromClaims(claims)}, nil
}

// Logout is idempotent and always succeeds: tokens are stateless, so there is
// no server-side session to tear down and the token itself stays valid until
// it expires. When the caller's principal resolved, the logout is audited.
func (a *Authenticator) Logout(ctx context.Context, p *Principal, meta RequestMeta) {
	if p == nil {
		return
	}

	a.record(ctx, AuditEntry{
		UserID:    p.UserID,
		Action:    AuditActionLogout,
		TableName: "users",
		RecordID:  p.UserID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
}

// record swallows recorder failures; auditing never blocks the auth flow.
func (a *Authenticator) record(ctx context.Context, entry AuditEntry) {
	if err := a.audit.Record(ctx, entry); err != nil {
		a.logger.Warn("audit recorder error on %s: %v", entry.Action, err)
	}
}
