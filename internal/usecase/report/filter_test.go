package report

import (
	"context"
	"errors"
	"testing"

	"cellular-usage-report/internal/domain/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocator struct {
	locations map[string]usage.Location
	lookups   []string
}

func (l *fakeLocator) Lookup(_ context.Context, name string) (usage.Location, error) {
	l.lookups = append(l.lookups, name)
	loc, ok := l.locations[name]
	if !ok {
		return usage.Location{}, errors.New("not found")
	}
	return loc, nil
}

type seed struct {
	id   string
	name string
	gib  float64
}

func totalsOf(seeds ...seed) *usage.Totals {
	totals := usage.NewTotals()
	for _, s := range seeds {
		totals.Observe(s.id, s.name).Add(usage.UsageEntry{Up: s.gib * usage.MiBPerGiB})
	}
	return totals
}

func TestPrepareThresholdIsInclusive(t *testing.T) {
	totals := usage.NewTotals()
	totals.Observe("1001", "Truck-A").Add(usage.UsageEntry{Up: 2048, Down: 1024})
	totals.Observe("1002", "Truck-B").Add(usage.UsageEntry{Up: 2048, Down: 512})

	rows := NewFilter(DefaultThresholdGiB, nil).Prepare(context.Background(), totals, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, usage.DisplayRow{DeviceID: "1001", Name: "Truck-A", TotalGiB: 3.0}, rows[0])
}

func TestPrepareRoundsBeforeComparing(t *testing.T) {
	totals := usage.NewTotals()
	// 2.996 GiB rounds up to 3.0
	totals.Observe("1001", "Truck-A").Add(usage.UsageEntry{Up: 2.996 * usage.MiBPerGiB})

	rows := NewFilter(DefaultThresholdGiB, nil).Prepare(context.Background(), totals, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0].TotalGiB)
}

func TestPrepareSortsDescendingAndKeepsTieOrder(t *testing.T) {
	totals := totalsOf(
		seed{"1", "Small", 5.0},
		seed{"2", "Tie-First", 7.5},
		seed{"3", "Big", 10.0},
		seed{"4", "Tie-Second", 7.5},
	)

	rows := NewFilter(DefaultThresholdGiB, nil).Prepare(context.Background(), totals, nil)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
		assert.Nil(t, r.Location)
	}
	assert.Equal(t, []string{"Big", "Tie-First", "Tie-Second", "Small"}, names)
}

func TestPrepareEmptyTotals(t *testing.T) {
	rows := NewFilter(DefaultThresholdGiB, nil).Prepare(context.Background(), usage.NewTotals(), nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestPrepareEnrichesKeptRowsOnly(t *testing.T) {
	totals := totalsOf(
		seed{"1", "Truck-A", 4.0},
		seed{"2", "Truck-B", 1.0},
		seed{"3", "Truck-C", 6.0},
	)
	locator := &fakeLocator{locations: map[string]usage.Location{
		"Truck-A": {Name: "DEPOT-123456", JobNumber: "123456"},
	}}
	metrics := NewMetricsTracker()

	rows := NewFilter(DefaultThresholdGiB, metrics).Prepare(context.Background(), totals, locator)

	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []string{"Truck-A", "Truck-C"}, locator.lookups)

	assert.Equal(t, "Truck-C", rows[0].Name)
	require.NotNil(t, rows[0].Location)
	assert.Equal(t, usage.UnknownLocation, *rows[0].Location)

	assert.Equal(t, "Truck-A", rows[1].Name)
	require.NotNil(t, rows[1].Location)
	assert.Equal(t, "123456", rows[1].Location.JobNumber)

	assert.EqualValues(t, 1, metrics.Snapshot().EnrichmentFailures)
}

func TestNewFilterDefaultsThreshold(t *testing.T) {
	assert.Equal(t, DefaultThresholdGiB, NewFilter(0, nil).thresholdGiB)
	assert.Equal(t, 5.0, NewFilter(5, nil).thresholdGiB)
}
