/*
Package trustsdk is a client for the trust service: two-factor enrollment and
login verification, abuse reports, and the security audit log.

Create a Client and attach a bearer token for authenticated calls:

	client := trustsdk.NewClient("https://trust.example.com").WithToken(accessToken)

	setup, err := client.SetupTwoFactor(ctx)
	codes, err := client.VerifyTwoFactor(ctx, totpCode)

The second login step needs no token:

	res, err := trustsdk.NewClient(baseURL).LoginVerify(ctx, uid, code)

Failed calls return *APIError, which matches the predefined errors with
errors.Is:

	if errors.Is(err, trustsdk.ErrInvalidCode) {
		// wrong TOTP or backup code
	}

Admin endpoints (reports, admin logs, suspicious activity) return
ErrForbidden for callers without admin rights.
*/
package trustsdk
