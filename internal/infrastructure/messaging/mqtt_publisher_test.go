package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/usecase/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	connected bool
	err       error
	topic     string
	qos       byte
	payload   []byte
}

func (b *recordingBroker) Publish(topic string, qos byte, _ bool, payload []byte) error {
	b.topic, b.qos, b.payload = topic, qos, payload
	return b.err
}

func (b *recordingBroker) IsConnected() bool { return b.connected }

func TestPublishReportEncodesJSON(t *testing.T) {
	broker := &recordingBroker{connected: true}
	publisher := NewReportPublisher(broker, "cellular/usage/reports", 1)

	err := publisher.PublishReport(context.Background(), &report.Report{
		StartDate: "2024-05-01",
		EndDate:   "2024-05-02",
		Rows:      []usage.DisplayRow{{DeviceID: "1001", Name: "Truck-A", TotalGiB: 3.5}},
	})
	require.NoError(t, err)

	assert.Equal(t, "cellular/usage/reports", broker.topic)
	assert.Equal(t, byte(1), broker.qos)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(broker.payload, &decoded))
	assert.Equal(t, "2024-05-01", decoded["start_date"])
	rows := decoded["rows"].([]any)
	assert.Equal(t, 3.5, rows[0].(map[string]any)["total_gb"])
}

func TestPublishReportFailures(t *testing.T) {
	disconnected := NewReportPublisher(&recordingBroker{}, "t", 1)
	assert.Error(t, disconnected.PublishReport(context.Background(), &report.Report{}))

	failing := NewReportPublisher(&recordingBroker{connected: true, err: errors.New("timeout")}, "t", 5)
	assert.Equal(t, byte(1), failing.qos)
	assert.Error(t, failing.PublishReport(context.Background(), &report.Report{}))
}
