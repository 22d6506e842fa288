package app

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/trust/pkg/httpx"
	"github.com/aussiebroadwan/trust/pkg/jwtx"
	"github.com/aussiebroadwan/trust/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInitVerifierSharedSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.JWTSecret = "shared-secret"
	cfg.JWTIssuer = "auth"

	v, keys, err := InitVerifier(context.Background(), cfg, slogx.Discard())
	require.NoError(t, err)
	require.Nil(t, keys)

	tok, err := jwtx.HMACSigner{Secret: []byte("shared-secret")}.
		Sign(jwtx.NewAccessClaims("alice", nil, time.Minute, "auth", time.Now()))
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
}

func TestInitVerifierJWKS(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var available atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !available.Load() {
			http.Error(w, "starting", http.StatusServiceUnavailable)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, jwtx.JWKS{Keys: []jwtx.JWK{jwtx.NewEd25519JWK("k1", pub)}})
	}))
	defer srv.Close()

	cfg := defaultConfig()
	cfg.JWKSURL = srv.URL
	cfg.JWTIssuer = "auth"

	// Auth service not up yet: the verifier is returned but not ready
	v, keys, err := InitVerifier(context.Background(), cfg, slogx.Discard())
	require.NoError(t, err)
	require.NotNil(t, keys)
	require.False(t, keys.Keys.IsReady())

	available.Store(true)
	n, err := keys.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, keys.Keys.IsReady())

	tok, err := jwtx.EdDSASigner{Kid: "k1", Key: priv}.
		Sign(jwtx.NewAccessClaims("bob", nil, time.Minute, "auth", time.Now()))
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "bob", claims.Subject)
}

func TestInitVerifierStaticKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "auth.pub")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	cfg := defaultConfig()
	cfg.JWTPublicKeyFile = path
	cfg.JWTKeyID = "auth-2025"
	cfg.JWTIssuer = "auth"

	v, keys, err := InitVerifier(context.Background(), cfg, slogx.Discard())
	require.NoError(t, err)
	require.Nil(t, keys)

	tok, err := jwtx.EdDSASigner{Kid: "auth-2025", Key: priv}.
		Sign(jwtx.NewAccessClaims("carol", nil, time.Minute, "auth", time.Now()))
	require.NoError(t, err)
	claims, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "carol", claims.Subject)

	// Tokens signed under another kid are refused
	other, err := jwtx.EdDSASigner{Kid: "rotated", Key: priv}.
		Sign(jwtx.NewAccessClaims("carol", nil, time.Minute, "auth", time.Now()))
	require.NoError(t, err)
	_, err = v.Verify(other)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)
}

func TestInitVerifierStaticKeyErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.JWTPublicKeyFile = filepath.Join(t.TempDir(), "missing.pub")
	cfg.JWTKeyID = "k1"

	_, _, err := InitVerifier(context.Background(), cfg, slogx.Discard())
	require.ErrorContains(t, err, "read jwt public key")

	require.NoError(t, os.WriteFile(cfg.JWTPublicKeyFile, []byte("not pem"), 0o600))
	_, _, err = InitVerifier(context.Background(), cfg, slogx.Discard())
	require.ErrorContains(t, err, "parse jwt public key")
}

func TestKeyRefresherStartStop(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		httpx.WriteJSON(w, http.StatusOK, jwtx.JWKS{})
	}))
	defer srv.Close()

	cfg := defaultConfig()
	cfg.JWKSURL = srv.URL
	cfg.JWKSRefreshTime = 10 * time.Millisecond

	_, keys, err := InitVerifier(context.Background(), cfg, slogx.Discard())
	require.NoError(t, err)

	keys.Start()
	require.Eventually(t, func() bool { return hits.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	keys.Stop()
}
