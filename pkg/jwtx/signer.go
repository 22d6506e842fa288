package jwtx

import (
	"crypto/ed25519"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints tokens. This service only verifies in production; signers
// exist for tests and for minting operator tokens in dev.
type Signer interface {
	Sign(Claims) (string, error)
}

// EdDSASigner signs with an Ed25519 private key under a kid.
type EdDSASigner struct {
	Kid string
	Key ed25519.PrivateKey
}

func (s EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.Kid
	return t.SignedString(s.Key)
}

// HMACSigner signs HS256 tokens with a shared secret.
type HMACSigner struct {
	Secret []byte
}

func (s HMACSigner) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}
