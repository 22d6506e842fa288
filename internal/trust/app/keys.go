package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aussiebroadwan/trust/pkg/cryptox"
	"github.com/aussiebroadwan/trust/pkg/jwtx"
)

// KeyRefresher keeps a KeySet in sync with the auth service's JWKS endpoint.
type KeyRefresher struct {
	Keys     *jwtx.KeySet
	URL      string
	Client   *http.Client
	Interval time.Duration
	Logger   *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// InitVerifier selects the access-token verifier.
//
// Modes:
//   - shared secret (TRUST_JWT_SECRET): HS256 tokens, always ready.
//   - JWKS (TRUST_JWKS_URL): EdDSA tokens from the auth service. The first
//     fetch may fail; /readyz reports degraded until keys arrive.
//   - static key (TRUST_JWT_PUBLIC_KEY_FILE): EdDSA tokens checked against one
//     PEM encoded public key registered under TRUST_JWT_KEY_ID.
func InitVerifier(ctx context.Context, cfg Config, logger *slog.Logger) (jwtx.Verifier, *KeyRefresher, error) {
	if cfg.JWTSecret != "" {
		logger.Info("verifying access tokens with shared secret", "issuer", cfg.JWTIssuer)
		return jwtx.NewHMACVerifier([]byte(cfg.JWTSecret), cfg.JWTIssuer), nil, nil
	}
	if cfg.JWTPublicKeyFile != "" {
		keys, err := loadStaticKey(cfg.JWTPublicKeyFile, cfg.JWTKeyID)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("verifying access tokens with static key",
			"file", cfg.JWTPublicKeyFile, "kid", cfg.JWTKeyID, "issuer", cfg.JWTIssuer)
		return jwtx.NewEdDSAVerifier(keys, cfg.JWTIssuer), nil, nil
	}
	if cfg.JWKSURL == "" {
		return nil, nil, errors.New("no token verification method configured")
	}

	r := &KeyRefresher{
		Keys:     jwtx.NewKeySet(),
		URL:      cfg.JWKSURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Interval: cfg.JWKSRefreshTime,
		Logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if r.Interval <= 0 {
		r.Interval = 5 * time.Minute
	}

	if n, err := r.Refresh(ctx); err != nil {
		logger.Warn("initial jwks fetch failed", "url", cfg.JWKSURL, "error", err)
	} else {
		logger.Info("jwks loaded", "url", cfg.JWKSURL, "num_keys", n)
	}

	return jwtx.NewEdDSAVerifier(r.Keys, cfg.JWTIssuer), r, nil
}

func loadStaticKey(path, kid string) (*jwtx.KeySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jwt public key: %w", err)
	}
	pub, err := cryptox.ParseEd25519PublicKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse jwt public key %s: %w", path, err)
	}

	keys := jwtx.NewKeySet()
	keys.Add(kid, pub)
	return keys, nil
}

// Refresh fetches the key set once and replaces the loaded keys.
func (r *KeyRefresher) Refresh(ctx context.Context) (int, error) {
	set, err := jwtx.FetchJWKS(ctx, r.Client, r.URL)
	if err != nil {
		return 0, err
	}
	n := r.Keys.ResetFromJWKS(set)
	if n == 0 {
		return 0, fmt.Errorf("jwks at %s has no Ed25519 keys", r.URL)
	}
	return n, nil
}

// Start begins periodic refreshes. Call Stop to shut it down.
func (r *KeyRefresher) Start() {
	go func() {
		defer close(r.doneCh)

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := r.Refresh(ctx); err != nil {
					r.Logger.Error("jwks refresh failed", "error", err)
				}
				cancel()
			case <-r.stopCh:
				return
			}
		}
	}()
}

func (r *KeyRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}
