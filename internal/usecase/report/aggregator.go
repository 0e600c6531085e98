package report

import (
	"context"
	"time"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"

	"go.uber.org/zap"
)

// Aggregator sums daily usage per device over a date range.
type Aggregator struct {
	source    usage.UsageSource
	directory usage.Directory
	metrics   *MetricsTracker
}

func NewAggregator(source usage.UsageSource, directory usage.Directory, metrics *MetricsTracker) *Aggregator {
	return &Aggregator{
		source:    source,
		directory: directory,
		metrics:   metrics,
	}
}

// Aggregate queries every day of the inclusive range [start, end] and sums
// the results. The API's report_date selects the day before it, so both
// bounds are moved back one day before iterating. Any failed day aborts the
// whole run and no partial totals are returned. A range whose start falls
// after its end yields empty totals.
func (a *Aggregator) Aggregate(ctx context.Context, start, end time.Time, token string) (*usage.Totals, error) {
	from := start.AddDate(0, 0, -1)
	to := end.AddDate(0, 0, -1)

	deviceIDs := a.directory.IDs()
	totals := usage.NewTotals()

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		a.metrics.Update(func(m *RunMetrics) { m.UpstreamCalls++ })

		records, err := a.source.DailyUsage(ctx, token, day, deviceIDs)
		if err != nil {
			logger.Warn("Daily usage request failed",
				zap.String("report_day", day.Format(time.DateOnly)),
				zap.Error(err),
			)
			return nil, err
		}

		for _, record := range records {
			name, ok := a.directory.Name(record.DeviceID)
			if !ok {
				name = usage.UnknownName
			}

			acc := totals.Observe(record.DeviceID, name)
			for _, entry := range record.Usages {
				acc.Add(entry)
			}
		}

		logger.Debug("Daily usage merged",
			zap.String("report_day", day.Format(time.DateOnly)),
			zap.Int("devices", len(records)),
		)
	}

	return totals, nil
}
