package trustsdk

import (
	"context"
	"net/http"
)

// SetupTwoFactor starts enrollment for the authenticated user.
func (c *Client) SetupTwoFactor(ctx context.Context) (*TwoFactorSetupResponse, error) {
	var out TwoFactorSetupResponse
	if err := c.do(ctx, http.MethodPost, "/v1/security/2fa/setup", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTwoFactor confirms enrollment and returns the backup codes.
func (c *Client) VerifyTwoFactor(ctx context.Context, code string) (*BackupCodesResponse, error) {
	var out BackupCodesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/security/2fa/verify", CodeRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DisableTwoFactor(ctx context.Context, req DisableRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/security/2fa/disable", req, nil, http.StatusOK)
}

func (c *Client) TwoFactorStatus(ctx context.Context) (*TwoFactorStatusResponse, error) {
	var out TwoFactorStatusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/security/2fa/status", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginVerify runs the second login step. It needs no token.
func (c *Client) LoginVerify(ctx context.Context, uid, code string) (*LoginVerifyResponse, error) {
	var out LoginVerifyResponse
	req := LoginVerifyRequest{UID: uid, Code: code}
	if err := c.do(ctx, http.MethodPost, "/v1/security/2fa/login-verify", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegenerateBackupCodes(ctx context.Context, code string) (*BackupCodesResponse, error) {
	var out BackupCodesResponse
	if err := c.do(ctx, http.MethodPost, "/v1/security/2fa/backup-codes", CodeRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
