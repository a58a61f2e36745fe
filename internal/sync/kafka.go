package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// KafkaNotifier distributes invalidation events over a Kafka topic. Each
// subscriber joins its own consumer group so every instance sees every
// event instead of the topic being load-balanced across them.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	brokers  []string
	topic    string
	group    string
	logger   *slog.Logger

	mu      stdsync.Mutex
	cancels []context.CancelFunc
}

func NewKafkaNotifier(brokers []string, topic, group string, logger *slog.Logger) (*KafkaNotifier, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	logger.Info("kafka notifier initialized", "brokers", brokers, "topic", topic)

	return &KafkaNotifier{
		producer: producer,
		brokers:  brokers,
		topic:    topic,
		group:    group,
		logger:   logger,
	}, nil
}

func (k *KafkaNotifier) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		k.logger.Error("failed to marshal event", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(event.Kind),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		k.logger.Error("failed to publish event to kafka", "error", err)
		return err
	}

	k.logger.Info("event published to kafka", "topic", k.topic, "partition", partition, "offset", offset, "kind", event.Kind)
	return nil
}

func (k *KafkaNotifier) Subscribe(handler func(Event)) (func(), error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_8_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	// Unique group per subscriber: invalidation is fan-out, not work-sharing.
	groupID := fmt.Sprintf("%s-%s", k.group, uuid.NewString())
	consumerGroup, err := sarama.NewConsumerGroup(k.brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.mu.Lock()
	k.cancels = append(k.cancels, cancel)
	k.mu.Unlock()

	go func() {
		defer consumerGroup.Close()
		groupHandler := &consumerGroupHandler{handler: handler, logger: k.logger}
		for {
			if err := consumerGroup.Consume(ctx, []string{k.topic}, groupHandler); err != nil {
				k.logger.Error("error consuming events", "error", err)
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	k.logger.Info("kafka notifier subscribed", "topic", k.topic, "group", groupID)

	return cancel, nil
}

func (k *KafkaNotifier) Close() error {
	k.mu.Lock()
	cancels := k.cancels
	k.cancels = nil
	k.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return k.producer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	handler func(Event)
	logger  *slog.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Error("failed to unmarshal event", "error", err)
			session.MarkMessage(msg, "")
			continue
		}

		h.handler(event)
		session.MarkMessage(msg, "")
	}

	return nil
}
