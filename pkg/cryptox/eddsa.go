package cryptox

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// ErrNotEd25519 is returned when PEM input holds some other key type.
var ErrNotEd25519 = errors.New("cryptox: not an Ed25519 key")

// ParseEd25519PublicKeyPEM decodes a PKIX "PUBLIC KEY" block. This is how the
// auth service's token verification key is distributed to this service.
func ParseEd25519PublicKeyPEM(data []byte) (ed25519.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("cryptox: no PEM block found")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse PKIX: %w", err)
	}

	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	return pub, nil
}
