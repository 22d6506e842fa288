package trustsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ReportUser(ctx context.Context, req UserReportRequest) (*ReportCreatedResponse, error) {
	var out ReportCreatedResponse
	if err := c.do(ctx, http.MethodPost, "/v1/security/report/user", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReportContent(ctx context.Context, req ContentReportRequest) (*ReportCreatedResponse, error) {
	var out ReportCreatedResponse
	if err := c.do(ctx, http.MethodPost, "/v1/security/report/content", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports requires admin rights. An empty status lists all reports.
func (c *Client) ListReports(ctx context.Context, status string) ([]Report, error) {
	path := "/v1/security/reports"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var out []Report
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateReport requires admin rights.
func (c *Client) UpdateReport(ctx context.Context, id string, req UpdateReportRequest) (*Report, error) {
	var out Report
	if err := c.do(ctx, http.MethodPut, "/v1/security/reports/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
