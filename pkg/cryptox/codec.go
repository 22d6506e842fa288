package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// CodecKeySize is the AES-256 key length in bytes.
const CodecKeySize = 32

// ErrEmptySecret is returned when a codec is built without key material.
var ErrEmptySecret = errors.New("cryptox: empty codec secret")

// SecretCodec performs authenticated encryption of short text payloads
// (message bodies, report details, TOTP secrets) using AES-256-GCM.
//
// Ciphertext format: base64url( [12-byte nonce][encrypted data][16-byte tag] ).
//
// A SecretCodec is built once at startup and is safe for concurrent use.
type SecretCodec struct {
	aead cipher.AEAD
}

// NewSecretCodec derives the working key from secret and returns a codec.
// A secret that is already exactly CodecKeySize bytes is used as-is, anything
// else is hashed with SHA-256 down to CodecKeySize bytes.
func NewSecretCodec(secret []byte) (*SecretCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	block, err := aes.NewCipher(DeriveCodecKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &SecretCodec{aead: gcm}, nil
}

// DeriveCodecKey maps arbitrary operator supplied key material to an AES-256
// key. The mapping is deterministic.
func DeriveCodecKey(secret []byte) []byte {
	if len(secret) == CodecKeySize {
		key := make([]byte, CodecKeySize)
		copy(key, secret)
		return key
	}
	sum := sha256.Sum256(secret)
	return sum[:]
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *SecretCodec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Values that are not valid
// ciphertext under this key (including rows written before encryption was
// introduced) are returned unchanged, so a failed open is never an error.
func (c *SecretCodec) Decrypt(ciphertext string) string {
	plaintext, err := c.Open(ciphertext)
	if err != nil {
		return ciphertext
	}
	return plaintext
}

// Open is the strict form of Decrypt and reports why a value could not be
// opened.
func (c *SecretCodec) Open(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("cryptox: not codec output: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", errors.New("cryptox: ciphertext too short")
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("cryptox: decryption failed: %w", err)
	}

	return string(plaintext), nil
}
