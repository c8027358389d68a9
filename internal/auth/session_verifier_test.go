package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func generateKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemBytes)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestSessionVerifierAcceptsValidToken(t *testing.T) {
	key, pub := generateKeyPair(t)

	verifier, err := NewSessionVerifier(VerifierConfig{
		PublicKeyPEM: pub,
		Issuer:       "https://clerk.example.com",
	})
	require.NoError(t, err)

	token := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "user_123",
		Issuer:    "https://clerk.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user_123", claims.Subject)
}

func TestSessionVerifierRejectsExpiredToken(t *testing.T) {
	key, pub := generateKeyPair(t)

	verifier, err := NewSessionVerifier(VerifierConfig{PublicKeyPEM: pub})
	require.NoError(t, err)

	token := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "user_123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestSessionVerifierRejectsWrongIssuer(t *testing.T) {
	key, pub := generateKeyPair(t)

	verifier, err := NewSessionVerifier(VerifierConfig{
		PublicKeyPEM: pub,
		Issuer:       "https://clerk.example.com",
	})
	require.NoError(t, err)

	token := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "user_123",
		Issuer:    "https://evil.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestSessionVerifierRejectsMissingSubject(t *testing.T) {
	key, pub := generateKeyPair(t)

	verifier, err := NewSessionVerifier(VerifierConfig{PublicKeyPEM: pub})
	require.NoError(t, err)

	token := signToken(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestSessionVerifierRejectsWrongAlgorithm(t *testing.T) {
	_, pub := generateKeyPair(t)

	verifier, err := NewSessionVerifier(VerifierConfig{PublicKeyPEM: pub})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestNewSessionVerifierRequiresKey(t *testing.T) {
	_, err := NewSessionVerifier(VerifierConfig{})
	require.Error(t, err)

	_, err = NewSessionVerifier(VerifierConfig{PublicKeyPEM: "not a key"})
	require.Error(t, err)
}
