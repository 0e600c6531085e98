package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalsKeepFirstSeenOrder(t *testing.T) {
	totals := NewTotals()
	totals.Observe("300", "Truck-C")
	totals.Observe("100", "Truck-A")
	totals.Observe("300", "ignored")

	all := totals.All()
	assert.Equal(t, 2, totals.Len())
	assert.Equal(t, "300", all[0].DeviceID)
	assert.Equal(t, "Truck-C", all[0].Name)
	assert.Equal(t, "100", all[1].DeviceID)
}

func TestDeviceTotalsConvertsToGiB(t *testing.T) {
	d := &DeviceTotals{DeviceID: "100"}
	d.Add(UsageEntry{Up: 2048, Down: 1024})
	d.Add(UsageEntry{Up: 512, Down: 0})

	assert.Equal(t, 2.5, d.TotalUp)
	assert.Equal(t, 1.0, d.TotalDown)
	assert.Equal(t, 3.5, d.Combined())
}

func TestRoundGiB(t *testing.T) {
	assert.Equal(t, 2.99, RoundGiB(2.994))
	assert.Equal(t, 3.0, RoundGiB(2.996))
	assert.Equal(t, 0.0, RoundGiB(0))
}
