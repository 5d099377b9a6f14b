package repository

import (
	"context"
	"strings"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	pkgkafka "MarketPulse/pkg/kafka"
)

// regimeSignalEvent is the wire shape published to the signals topic.
type regimeSignalEvent struct {
	Tickers          []string      `json:"tickers"`
	Timestamp        int64         `json:"t"`
	TurbulenceIndex  float64       `json:"turbulence_index"`
	Regime           models.Regime `json:"regime"`
	FractalDimension float64       `json:"fractal_dimension"`
}

// KafkaSignalPublisher pushes regime signals to a Kafka topic. The
// message key is the sorted universe so downstream consumers can
// partition per portfolio.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)

func (p *KafkaSignalPublisher) PublishSignal(ctx context.Context, tickers []string, signal models.RegimeSignal) error {
	key := []byte(strings.Join(tickers, ","))
	return p.producer.Publish(ctx, p.topic, key, regimeSignalEvent{
		Tickers:          tickers,
		Timestamp:        signal.Timestamp,
		TurbulenceIndex:  signal.TurbulenceIndex,
		Regime:           signal.Regime,
		FractalDimension: signal.FractalDimension,
	})
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
