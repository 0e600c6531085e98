package routerapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cellular-usage-report/internal/domain/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyUsageSendsExpectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/bandwidth_usage", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "daily", q.Get("type"))
		assert.Equal(t, "2024-05-01T00:00:01", q.Get("report_date"))
		assert.Equal(t, "7", q.Get("wan_id"))
		assert.Equal(t, "100,200", q.Get("device_ids"))
		assert.Equal(t, "true", q.Get("include_details"))
		assert.Equal(t, "true", q.Get("show_devices_with_usages_only"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"device_id": 100, "usages": [{"up": 2048, "down": 1024}, {"up": "512", "down": null}]},
				{"device_id": "200", "usages": []}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL+"/rest/bandwidth_usage", "7")
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	records, err := client.DailyUsage(context.Background(), "tok-123", day, []string{"100", "200"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "100", records[0].DeviceID)
	assert.Equal(t, []usage.UsageEntry{{Up: 2048, Down: 1024}, {Up: 512, Down: 0}}, records[0].Usages)
	assert.Equal(t, "200", records[1].DeviceID)
	assert.Empty(t, records[1].Usages)
}

func TestDailyUsageMissingDataIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stat": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "0")
	records, err := client.DailyUsage(context.Background(), "tok", time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDailyUsageNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "token expired"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "0")
	_, err := client.DailyUsage(context.Background(), "tok", time.Now(), []string{"1"})

	var statusErr *usage.UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "usage", statusErr.Service)
	assert.Contains(t, statusErr.Body, "token expired")
}

func TestDailyUsageTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, url, "0")
	_, err := client.DailyUsage(context.Background(), "tok", time.Now(), []string{"1"})

	var transportErr *usage.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "usage", transportErr.Service)
	assert.NotEmpty(t, transportErr.Error())
}

func TestDailyUsageMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "0")
	_, err := client.DailyUsage(context.Background(), "tok", time.Now(), []string{"1"})
	assert.True(t, errors.Is(err, usage.ErrMalformedResponse))
}

func TestFormatReportDate(t *testing.T) {
	day := time.Date(2023, 12, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2023-12-31T00:00:01", FormatReportDate(day))
}
