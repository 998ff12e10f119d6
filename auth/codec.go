package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenTTL matches the 24h expiry the previous backend baked into
// every token.
const DefaultTokenTTL = 24 * time.Hour

// TokenCodec signs and verifies compact HS256 tokens. It is the sole source
// of truth for token integrity and expiry: stateless, no I/O, safe for
// concurrent use from any number of requests.
type TokenCodec struct {
	signingKey []byte
	ttl        time.Duration
	logger     Logger
	now        func() time.Time
}

// NewTokenCodec creates a codec bound to a signing key. Two codecs built with
// different keys reject each other's tokens.
func NewTokenCodec(signingKey []byte, ttl time.Duration, logger Logger) *TokenCodec {
	if logger == nil {
		logger = defLogger{}
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{
		signingKey: signingKey,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the codec's wall clock. Tests use this to pin issuance
// and to evaluate decode at a chosen instant.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	tc.now = now
	return tc
}

// TTL returns the configured token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Encode stamps iat/exp on the claims and returns the signed compact token.
// Any iat/exp the caller set is overwritten.
func (tc *TokenCodec) Encode(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	now := tc.now()
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(tc.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode validates a compact token and returns its claims. Failure modes, in
// order: ErrTokenMalformed for anything that is not three non-empty dot
// separated segments, ErrInvalidSignature when the third segment does not
// decode or the recomputed HMAC does not match, ErrTokenMalformed again when
// the payload does not decode, and ErrTokenExpired once exp is not in the
// future. The signature is checked before the payload is parsed, and the
// comparison is constant time.
func (tc *TokenCodec) Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithTimeFunc(tc.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, ErrInvalidSignature
	}

	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, tc.signingKey); err != nil {
		return nil, ErrInvalidSignature
	}

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return tc.signingKey, nil
	}); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	return claims, nil
}
