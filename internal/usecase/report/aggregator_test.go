package report

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cellular-usage-report/internal/domain/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory map[string]string

func (d fakeDirectory) Name(deviceID string) (string, bool) {
	name, ok := d[deviceID]
	return name, ok
}

func (d fakeDirectory) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	return ids
}

// fakeSource serves canned records keyed by report day.
type fakeSource struct {
	days   map[string][]usage.DailyUsageRecord
	errs   map[string]error
	calls  []string
	tokens []string
}

func (s *fakeSource) DailyUsage(_ context.Context, token string, day time.Time, _ []string) ([]usage.DailyUsageRecord, error) {
	key := day.Format(time.DateOnly)
	s.calls = append(s.calls, key)
	s.tokens = append(s.tokens, token)
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return s.days[key], nil
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)
	return d
}

func TestAggregateSameDayMakesOneShiftedCall(t *testing.T) {
	source := &fakeSource{days: map[string][]usage.DailyUsageRecord{
		"2024-05-09": {{DeviceID: "1001", Usages: []usage.UsageEntry{{Up: 2048, Down: 1024}}}},
	}}
	agg := NewAggregator(source, fakeDirectory{"1001": "Truck-A"}, nil)

	day := mustDate(t, "2024-05-10")
	totals, err := agg.Aggregate(context.Background(), day, day, "tok")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-05-09"}, source.calls)
	assert.Equal(t, []string{"tok"}, source.tokens)

	truck, ok := totals.Get("1001")
	require.True(t, ok)
	assert.Equal(t, "Truck-A", truck.Name)
	assert.InDelta(t, 2.0, truck.TotalUp, 1e-9)
	assert.InDelta(t, 1.0, truck.TotalDown, 1e-9)
}

func TestAggregateIteratesInclusiveRange(t *testing.T) {
	source := &fakeSource{days: map[string][]usage.DailyUsageRecord{
		"2024-05-01": {{DeviceID: "1001", Usages: []usage.UsageEntry{{Up: 512, Down: 512}}}},
		"2024-05-02": {{DeviceID: "1001", Usages: []usage.UsageEntry{{Up: 1024}, {Down: 1024}}}},
	}}
	agg := NewAggregator(source, fakeDirectory{"1001": "Truck-A"}, nil)

	totals, err := agg.Aggregate(context.Background(), mustDate(t, "2024-05-02"), mustDate(t, "2024-05-04"), "tok")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-05-01", "2024-05-02", "2024-05-03"}, source.calls)
	truck, _ := totals.Get("1001")
	assert.Equal(t, 3.0, truck.Combined())
}

func TestAggregateUnknownAndZeroUsageDevices(t *testing.T) {
	source := &fakeSource{days: map[string][]usage.DailyUsageRecord{
		"2024-05-09": {
			{DeviceID: "9999", Usages: []usage.UsageEntry{{Up: 10, Down: 10}}},
			{DeviceID: "1001"},
		},
	}}
	agg := NewAggregator(source, fakeDirectory{"1001": "Truck-A"}, nil)

	day := mustDate(t, "2024-05-10")
	totals, err := agg.Aggregate(context.Background(), day, day, "tok")
	require.NoError(t, err)
	require.Equal(t, 2, totals.Len())

	stranger, ok := totals.Get("9999")
	require.True(t, ok)
	assert.Equal(t, usage.UnknownName, stranger.Name)

	idle, ok := totals.Get("1001")
	require.True(t, ok)
	assert.Zero(t, idle.TotalUp)
	assert.Zero(t, idle.TotalDown)
}

func TestAggregateAbortsOnFailedDay(t *testing.T) {
	source := &fakeSource{
		days: map[string][]usage.DailyUsageRecord{
			"2024-05-01": {{DeviceID: "1001", Usages: []usage.UsageEntry{{Up: 4096}}}},
		},
		errs: map[string]error{
			"2024-05-02": &usage.UpstreamStatusError{Service: "usage", StatusCode: http.StatusInternalServerError},
		},
	}
	metrics := NewMetricsTracker()
	agg := NewAggregator(source, fakeDirectory{"1001": "Truck-A"}, metrics)

	totals, err := agg.Aggregate(context.Background(), mustDate(t, "2024-05-02"), mustDate(t, "2024-05-04"), "tok")
	require.Error(t, err)
	assert.Nil(t, totals)

	var statusErr *usage.UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, source.calls)
	assert.EqualValues(t, 2, metrics.Snapshot().UpstreamCalls)
}

func TestAggregateStartAfterEndIsEmpty(t *testing.T) {
	source := &fakeSource{}
	agg := NewAggregator(source, fakeDirectory{}, nil)

	totals, err := agg.Aggregate(context.Background(), mustDate(t, "2024-05-05"), mustDate(t, "2024-05-01"), "tok")
	require.NoError(t, err)
	assert.Zero(t, totals.Len())
	assert.Empty(t, source.calls)
}
