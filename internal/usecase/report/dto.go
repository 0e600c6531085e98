package report

import (
	"time"

	"cellular-usage-report/internal/domain/usage"
)

// RunRequest carries one report request through the pipeline. Nothing about
// a run is kept once Run returns.
type RunRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`

	// IncludeLocations asks for inventory enrichment. Callers set it only
	// after checking the operator may see locations.
	IncludeLocations bool   `json:"-"`
	RequestedBy      string `json:"-"`
}

type Report struct {
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Rows         []usage.DisplayRow `json:"rows"`
	DevicesSeen  int                `json:"devices_seen"`
	ThresholdGiB float64            `json:"threshold_gb"`
	Enriched     bool               `json:"enriched"`
	RequestedBy  string             `json:"requested_by,omitempty"`
	GeneratedAt  time.Time          `json:"generated_at"`
}
