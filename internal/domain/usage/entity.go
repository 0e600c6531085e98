package usage

import "math"

// UnknownName is shown for devices missing from the directory and for
// locations the inventory API could not resolve.
const UnknownName = "Unknown"

// MiBPerGiB converts the API's mebibyte figures to gibibytes.
const MiBPerGiB = 1024.0

// DailyUsageRecord is one device entry of a daily usage response.
type DailyUsageRecord struct {
	DeviceID string
	Usages   []UsageEntry
}

// UsageEntry holds upload and download amounts in mebibytes.
type UsageEntry struct {
	Up   float64
	Down float64
}

// DeviceTotals accumulates usage for one device across a date range, in
// gibibytes. Totals only ever grow.
type DeviceTotals struct {
	DeviceID  string
	Name      string
	TotalUp   float64
	TotalDown float64
}

func (d *DeviceTotals) Add(entry UsageEntry) {
	d.TotalUp += entry.Up / MiBPerGiB
	d.TotalDown += entry.Down / MiBPerGiB
}

// Combined returns upload plus download rounded to two decimals.
func (d *DeviceTotals) Combined() float64 {
	return RoundGiB(d.TotalUp + d.TotalDown)
}

// Totals maps device identifiers to their accumulators and remembers the
// order in which devices were first seen.
type Totals struct {
	order []string
	byID  map[string]*DeviceTotals
}

func NewTotals() *Totals {
	return &Totals{byID: make(map[string]*DeviceTotals)}
}

// Observe returns the accumulator for deviceID, creating it with name on
// first sight.
func (t *Totals) Observe(deviceID, name string) *DeviceTotals {
	if existing, ok := t.byID[deviceID]; ok {
		return existing
	}

	created := &DeviceTotals{DeviceID: deviceID, Name: name}
	t.byID[deviceID] = created
	t.order = append(t.order, deviceID)
	return created
}

func (t *Totals) Get(deviceID string) (*DeviceTotals, bool) {
	d, ok := t.byID[deviceID]
	return d, ok
}

func (t *Totals) Len() int {
	return len(t.order)
}

// All returns the accumulators in first-seen order.
func (t *Totals) All() []*DeviceTotals {
	all := make([]*DeviceTotals, 0, len(t.order))
	for _, id := range t.order {
		all = append(all, t.byID[id])
	}
	return all
}

// Location is the physical whereabouts of a device as reported by the
// inventory API.
type Location struct {
	Name      string `json:"location_name"`
	JobNumber string `json:"job_number"`
}

// UnknownLocation is attached to rows whose enrichment failed.
var UnknownLocation = Location{Name: UnknownName, JobNumber: UnknownName}

// DisplayRow is one line of the final report.
type DisplayRow struct {
	DeviceID string    `json:"device_id"`
	Name     string    `json:"name"`
	TotalGiB float64   `json:"total_gb"`
	Location *Location `json:"location,omitempty"`
}

func RoundGiB(v float64) float64 {
	return math.Round(v*100) / 100
}
