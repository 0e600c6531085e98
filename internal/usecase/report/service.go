package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"
	appErrors "cellular-usage-report/pkg/errors"
	"cellular-usage-report/pkg/utils"

	"go.uber.org/zap"
)

// Enricher opens a run-scoped location lookup.
type Enricher interface {
	NewSession() usage.Locator
}

// Publisher announces finished reports to other systems.
type Publisher interface {
	PublishReport(ctx context.Context, report *Report) error
}

type Options struct {
	ThresholdGiB    float64
	MaxLookbackDays int
	Now             func() time.Time
}

// Service runs the usage report pipeline: token, aggregation, filtering and
// optional enrichment.
type Service struct {
	tokens     usage.TokenSource
	aggregator *Aggregator
	filter     *Filter
	enricher   Enricher
	publisher  Publisher
	metrics    *MetricsTracker

	maxLookbackDays int
	now             func() time.Time
}

// NewService wires the pipeline. enricher and publisher may be nil.
func NewService(
	tokens usage.TokenSource,
	source usage.UsageSource,
	directory usage.Directory,
	enricher Enricher,
	publisher Publisher,
	opts Options,
) *Service {
	metrics := NewMetricsTracker()

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		tokens:          tokens,
		aggregator:      NewAggregator(source, directory, metrics),
		filter:          NewFilter(opts.ThresholdGiB, metrics),
		enricher:        enricher,
		publisher:       publisher,
		metrics:         metrics,
		maxLookbackDays: opts.MaxLookbackDays,
		now:             now,
	}
}

// Run validates the request and produces a report. A token failure stops the
// run before any usage request is made.
func (s *Service) Run(ctx context.Context, req *RunRequest) (*Report, error) {
	start, end, err := s.parseRange(req)
	if err != nil {
		return nil, err
	}

	started := s.now()
	s.metrics.Update(func(m *RunMetrics) {
		m.RunsStarted++
		m.LastRunAt = started
	})

	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	totals, err := s.aggregator.Aggregate(ctx, start, end, token)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	var locator usage.Locator
	if req.IncludeLocations && s.enricher != nil {
		locator = s.enricher.NewSession()
	}

	rows := s.filter.Prepare(ctx, totals, locator)

	report := &Report{
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Rows:         rows,
		DevicesSeen:  totals.Len(),
		ThresholdGiB: s.filter.thresholdGiB,
		Enriched:     locator != nil,
		RequestedBy:  req.RequestedBy,
		GeneratedAt:  s.now(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			logger.Warn("Failed to publish report", zap.Error(err))
		}
	}

	duration := s.now().Sub(started)
	s.metrics.Update(func(m *RunMetrics) {
		m.RunsSucceeded++
		m.LastRunDuration = duration
	})

	logger.Info("Usage report generated",
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("requested_by", req.RequestedBy),
		zap.Int("devices_seen", report.DevicesSeen),
		zap.Int("rows", len(rows)),
		zap.Bool("enriched", report.Enriched),
		zap.Duration("duration", duration),
		zap.String("event", "usage_report_generated"),
	)

	return report, nil
}

// LocationsAvailable reports whether inventory enrichment is configured.
func (s *Service) LocationsAvailable() bool {
	return s.enricher != nil
}

func (s *Service) Metrics() RunMetrics {
	return s.metrics.Snapshot()
}

func (s *Service) parseRange(req *RunRequest) (time.Time, time.Time, error) {
	if req == nil {
		return time.Time{}, time.Time{}, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return time.Time{}, time.Time{}, appErrors.NewAppError("VALIDATION_ERROR", "Dates must use the YYYY-MM-DD format", err)
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.NewAppError("VALIDATION_ERROR", "Invalid start date", err)
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.NewAppError("VALIDATION_ERROR", "Invalid end date", err)
	}

	today, _ := time.Parse(time.DateOnly, s.now().Format(time.DateOnly))
	if end.After(today) {
		return time.Time{}, time.Time{}, appErrors.NewAppError("INVALID_DATE_RANGE",
			"End date cannot be in the future", appErrors.ErrInvalidDateRange)
	}
	if s.maxLookbackDays > 0 && start.Before(today.AddDate(0, 0, -s.maxLookbackDays)) {
		return time.Time{}, time.Time{}, appErrors.NewAppError("INVALID_DATE_RANGE",
			fmt.Sprintf("Start date must be within the last %d days", s.maxLookbackDays), appErrors.ErrInvalidDateRange)
	}

	return start, end, nil
}

func (s *Service) recordFailure(err error) {
	var (
		statusErr    *usage.UpstreamStatusError
		transportErr *usage.TransportError
	)

	s.metrics.Update(func(m *RunMetrics) {
		switch {
		case errors.Is(err, usage.ErrTokenUnavailable):
			m.TokenFailures++
		case errors.As(err, &statusErr):
			m.UpstreamFailures++
		case errors.As(err, &transportErr):
			m.TransportFailures++
		default:
			m.UpstreamFailures++
		}
	})
}
