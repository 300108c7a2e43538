package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tendermint/tendermint/libs/log"
)

const DefaultTopic = "surety_events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards every event as a JSON message to a kafka topic.
type KafkaPublisher struct {
	w       messageWriter
	logger  log.Logger
	timeout time.Duration
}

func NewKafkaPublisher(topic string, brokers []string, logger log.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger log.Logger) *KafkaPublisher {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &KafkaPublisher{
		w:       w,
		logger:  logger.With("module", "kafka"),
		timeout: 5 * time.Second,
	}
}

// Notify lets the publisher subscribe to a Notifier.
func (kp *KafkaPublisher) Notify(event Event) {
	kp.Publish(event)
}

func (kp *KafkaPublisher) Publish(events ...Event) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		body, err := MarshalJSON(event)
		if err != nil {
			kp.logger.Error("encode event", "type", event.Type(), "err", err)
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.Type()),
			Value: body,
		})
	}
	if len(msgs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), kp.timeout)
	defer cancel()
	if err := kp.w.WriteMessages(ctx, msgs...); err != nil {
		kp.logger.Error("write events", "count", len(msgs), "err", err)
	}
}

func (kp *KafkaPublisher) Close() error {
	return kp.w.Close()
}
