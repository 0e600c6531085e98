package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"cellular-usage-report/internal/logger"
	"cellular-usage-report/internal/usecase/report"

	"go.uber.org/zap"
)

// Broker is the publish side of an MQTT connection.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	IsConnected() bool
}

// ReportPublisher announces finished usage reports on an MQTT topic.
type ReportPublisher struct {
	broker Broker
	topic  string
	qos    byte
}

func NewReportPublisher(broker Broker, topic string, qos int) *ReportPublisher {
	if qos < 0 || qos > 2 {
		qos = 1
	}
	return &ReportPublisher{broker: broker, topic: topic, qos: byte(qos)}
}

func (p *ReportPublisher) PublishReport(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.broker.IsConnected() {
		return fmt.Errorf("mqtt broker not connected")
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := p.broker.Publish(p.topic, p.qos, false, payload); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	logger.Debug("Report published",
		zap.String("topic", p.topic),
		zap.Int("rows", len(r.Rows)),
		zap.Int("bytes", len(payload)),
	)
	return nil
}
