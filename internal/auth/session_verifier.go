package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by a provider-issued session token.
// Subject holds the provider user identifier.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// VerifierConfig bundles the configuration required to build a SessionVerifier.
type VerifierConfig struct {
	// PublicKeyPEM is the RS256 verification key published by the identity
	// provider (the "JWT verification key" from its dashboard).
	PublicKeyPEM string
	Issuer       string
	Clock        func() time.Time
}

// SessionVerifier validates provider session tokens presented by the browser.
// The backend never issues tokens itself; authentication is fully delegated.
type SessionVerifier struct {
	key    *rsa.PublicKey
	issuer string
	now    func() time.Time
}

// NewSessionVerifier constructs a SessionVerifier from a PEM encoded RSA public key.
func NewSessionVerifier(cfg VerifierConfig) (*SessionVerifier, error) {
	if cfg.PublicKeyPEM == "" {
		return nil, errors.New("auth: jwt public key must be provided")
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("auth: parse jwt public key: %w", err)
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &SessionVerifier{
		key:    key,
		issuer: cfg.Issuer,
		now:    now,
	}, nil
}

// Verify parses and validates a session token, returning its claims.
func (v *SessionVerifier) Verify(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("auth: token string is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parser := jwt.NewParser(opts...)

	var claims SessionClaims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}); err != nil {
		return nil, fmt.Errorf("auth: validate token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("auth: token subject is empty")
	}

	return &claims, nil
}
