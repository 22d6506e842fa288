package service

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/google/uuid"
)

const (
	backupCodeCount  = 10
	backupCodeLength = 8
)

// generateBackupCodes returns n distinct codes of backupCodeLength uppercase
// base32 characters. The first five bytes of a v4 UUID are fully random, so
// each code carries 40 bits.
func generateBackupCodes(n int) ([]string, error) {
	codes := make([]string, 0, n)
	seen := make(map[string]struct{}, n)

	for len(codes) < n {
		u, err := uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}

		code := base32.StdEncoding.EncodeToString(u[:5])[:backupCodeLength]
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// normalizeBackupCode accepts codes typed in lower case or with surrounding
// whitespace.
func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func backupCodeHash(code string) string {
	return cryptox.FingerprintToken(normalizeBackupCode(code))
}
