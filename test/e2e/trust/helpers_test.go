package trust_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/trust/pkg/jwtx"
	"github.com/aussiebroadwan/trust/pkg/trustsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for trust service end-to-end tests.
 * This includes container setup, token minting, and assertions.
 */

const (
	testImageName = "trust-service-test:latest"

	jwtSecret = "e2e-shared-secret-0123456789abcdef"
	jwtIssuer = "auth-service"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Trust Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Trust Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/trust/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupTrustContainer starts the trust service in a container and returns the base URL.
func setupTrustContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"TRUST_DATABASE_FILE":  "/data/trust.db",
			"TRUST_PEPPER_FILE":    "/data/pepper",
			"TRUST_ENCRYPTION_KEY": "e2e-encryption-key",
			"TRUST_JWT_SECRET":     jwtSecret,
			"TRUST_JWT_ISSUER":     jwtIssuer,
			"ENV":                  "test",
			"LOG_LEVEL":            "info",
			"LOG_FORMAT":           "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// clientFor returns a client authenticated as uid with a token the
// container accepts.
func clientFor(t *testing.T, baseURL, uid string) *trustsdk.Client {
	t.Helper()

	tok, err := jwtx.HMACSigner{Secret: []byte(jwtSecret)}.
		Sign(jwtx.NewAccessClaims(uid, nil, 10*time.Minute, jwtIssuer, time.Now()))
	require.NoError(t, err)

	return trustsdk.NewClient(baseURL).WithToken(tok)
}

// assertHealthy verifies that a health check response indicates a healthy service.
func assertHealthy(t *testing.T, health *trustsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
