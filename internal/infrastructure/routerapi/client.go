package routerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cellular-usage-report/internal/domain/usage"
)

const (
	serviceName = "usage"

	reportDateLayout = "2006-01-02"
	reportDateSuffix = "T00:00:01"

	maxErrorBody = 1024
)

// Client talks to the router management API's daily bandwidth usage endpoint.
type Client struct {
	httpClient *http.Client
	usageURL   string
	wanID      string
}

func NewClient(httpClient *http.Client, usageURL, wanID string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		usageURL:   usageURL,
		wanID:      wanID,
	}
}

type usageResponse struct {
	Data []deviceUsage `json:"data"`
}

type deviceUsage struct {
	DeviceID flexString  `json:"device_id"`
	Usages   []usageItem `json:"usages"`
}

type usageItem struct {
	Up   flexFloat `json:"up"`
	Down flexFloat `json:"down"`
}

// DailyUsage fetches per-device usage for the report date day. One request,
// one page, no retry.
func (c *Client) DailyUsage(ctx context.Context, token string, day time.Time, deviceIDs []string) ([]usage.DailyUsageRecord, error) {
	query := url.Values{}
	query.Set("type", "daily")
	query.Set("report_date", FormatReportDate(day))
	query.Set("wan_id", c.wanID)
	query.Set("device_ids", strings.Join(deviceIDs, ","))
	query.Set("include_details", "true")
	query.Set("show_devices_with_usages_only", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usageURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("usage API: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &usage.TransportError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &usage.UpstreamStatusError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var payload usageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: usage API: %v", usage.ErrMalformedResponse, err)
	}

	records := make([]usage.DailyUsageRecord, 0, len(payload.Data))
	for _, d := range payload.Data {
		id := string(d.DeviceID)
		if id == "" {
			id = usage.UnknownName
		}

		entries := make([]usage.UsageEntry, 0, len(d.Usages))
		for _, u := range d.Usages {
			entries = append(entries, usage.UsageEntry{Up: float64(u.Up), Down: float64(u.Down)})
		}

		records = append(records, usage.DailyUsageRecord{DeviceID: id, Usages: entries})
	}

	return records, nil
}

// FormatReportDate renders day the way the API expects report_date.
func FormatReportDate(day time.Time) string {
	return day.Format(reportDateLayout) + reportDateSuffix
}
