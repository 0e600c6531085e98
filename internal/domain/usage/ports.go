package usage

import (
	"context"
	"time"
)

// Directory resolves device identifiers to display names.
type Directory interface {
	Name(deviceID string) (string, bool)
	IDs() []string
}

// TokenSource hands out a fresh bearer token on every call.
type TokenSource interface {
	Acquire(ctx context.Context) (string, error)
}

// UsageSource fetches one day of per-device usage.
type UsageSource interface {
	DailyUsage(ctx context.Context, token string, day time.Time, deviceIDs []string) ([]DailyUsageRecord, error)
}

// Locator resolves a device display name to its physical location.
type Locator interface {
	Lookup(ctx context.Context, deviceName string) (Location, error)
}
