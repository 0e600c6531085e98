package report

import (
	"cmp"
	"context"
	"slices"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const DefaultThresholdGiB = 3.0

// Filter turns accumulated totals into ordered display rows.
type Filter struct {
	thresholdGiB float64
	metrics      *MetricsTracker
}

func NewFilter(thresholdGiB float64, metrics *MetricsTracker) *Filter {
	if thresholdGiB <= 0 {
		thresholdGiB = DefaultThresholdGiB
	}
	return &Filter{thresholdGiB: thresholdGiB, metrics: metrics}
}

// Prepare keeps devices whose rounded combined total reaches the threshold,
// enriches them through locator when one is given, and sorts by total,
// largest first. Equal totals keep the order devices were first seen in.
// A failed lookup attaches UnknownLocation instead of dropping the row.
func (f *Filter) Prepare(ctx context.Context, totals *usage.Totals, locator usage.Locator) []usage.DisplayRow {
	rows := lo.FilterMap(totals.All(), func(d *usage.DeviceTotals, _ int) (usage.DisplayRow, bool) {
		combined := d.Combined()
		return usage.DisplayRow{
			DeviceID: d.DeviceID,
			Name:     d.Name,
			TotalGiB: combined,
		}, combined >= f.thresholdGiB
	})

	if locator != nil {
		for i := range rows {
			rows[i].Location = f.locate(ctx, locator, rows[i])
		}
	}

	slices.SortStableFunc(rows, func(a, b usage.DisplayRow) int {
		return cmp.Compare(b.TotalGiB, a.TotalGiB)
	})

	return rows
}

func (f *Filter) locate(ctx context.Context, locator usage.Locator, row usage.DisplayRow) *usage.Location {
	loc, err := locator.Lookup(ctx, row.Name)
	if err != nil {
		f.metrics.Update(func(m *RunMetrics) { m.EnrichmentFailures++ })
		logger.Warn("Location lookup failed",
			zap.String("device_id", row.DeviceID),
			zap.String("device_name", row.Name),
			zap.Error(err),
		)
		unknown := usage.UnknownLocation
		return &unknown
	}
	return &loc
}
