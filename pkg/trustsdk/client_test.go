package trustsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/trust/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

func TestClientSendsTokenAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/security/report/user", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req trustsdk.UserReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "bob", req.UserID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"report submitted","reportId":"r1"}`)
	}))
	defer srv.Close()

	c := trustsdk.NewClient(srv.URL + "/").WithToken("tok-123")
	out, err := c.ReportUser(context.Background(), trustsdk.UserReportRequest{UserID: "bob", Reason: "spam"})
	require.NoError(t, err)
	require.Equal(t, "r1", out.ReportID)
}

func TestClientQueryParameters(t *testing.T) {
	t.Parallel()

	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := trustsdk.NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Logs(ctx, 0)
	require.NoError(t, err)
	_, err = c.AdminLogs(ctx, 20, "login_failed")
	require.NoError(t, err)
	_, err = c.ListReports(ctx, "pending")
	require.NoError(t, err)

	require.Equal(t, []string{
		"/v1/security/logs",
		"/v1/security/logs/admin?event_type=login_failed&limit=20",
		"/v1/security/reports?status=pending",
	}, got)
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantIs   error
	}{
		{
			name:     "structured",
			status:   http.StatusForbidden,
			body:     `{"error":"forbidden","error_description":"admin privileges required"}`,
			wantCode: trustsdk.ErrorCodeForbidden,
			wantIs:   trustsdk.ErrForbidden,
		},
		{
			name:     "custom code",
			status:   http.StatusBadRequest,
			body:     `{"error":"2fa_not_enabled","error_description":"two-factor authentication is not enabled"}`,
			wantCode: "2fa_not_enabled",
		},
		{
			name:     "unstructured",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantCode: trustsdk.ErrorCodeServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := trustsdk.NewClient(srv.URL).TwoFactorStatus(context.Background())
			require.Error(t, err)

			var apiErr *trustsdk.APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantCode, apiErr.Code)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestAPIErrorIs(t *testing.T) {
	t.Parallel()

	custom := trustsdk.ErrNotFound.WithDescription("report not found")
	require.ErrorIs(t, custom, trustsdk.ErrNotFound)
	require.NotErrorIs(t, custom, trustsdk.ErrConflict)
	require.Equal(t, "not found", trustsdk.ErrNotFound.Description)

	// Same code, different status
	require.NotErrorIs(t, trustsdk.NewAPIError(http.StatusBadRequest, trustsdk.ErrorCodeInvalidCode, "x"), trustsdk.ErrInvalidCode)
}

func TestAPIErrorWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	trustsdk.ErrConflict.WithDescription("report is already resolved").WriteError(rec)

	require.Equal(t, http.StatusConflict, rec.Code)
	var body trustsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, trustsdk.ErrorCodeConflict, body.Error)
	require.Equal(t, "report is already resolved", body.ErrorDescription)
}
