package trustsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Logs returns the authenticated user's security events, newest first.
func (c *Client) Logs(ctx context.Context, limit int) ([]SecurityEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []SecurityEvent
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/security/logs", q), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminLogs returns events across all users. Requires admin rights.
func (c *Client) AdminLogs(ctx context.Context, limit int, eventType string) ([]SecurityEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if eventType != "" {
		q.Set("event_type", eventType)
	}

	var out []SecurityEvent
	if err := c.do(ctx, http.MethodGet, withQuery("/v1/security/logs/admin", q), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Suspicious returns the suspicious-activity summary. Requires admin rights.
func (c *Client) Suspicious(ctx context.Context) (*SuspiciousSummary, error) {
	var out SuspiciousSummary
	if err := c.do(ctx, http.MethodGet, "/v1/security/logs/suspicious", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
