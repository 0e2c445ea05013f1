// Package kafka lets render jobs arrive through a Kafka consumer group.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"yourmovie/config"
	"yourmovie/logging"

	"github.com/IBM/sarama"
)

// MessageHandler defines the interface for handling consumed messages
type MessageHandler interface {
	// HandleMessage processes a Kafka message and returns whether to mark it as processed.
	// An unmarked message is handed back again, with backoff, until it is marked.
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer handles Kafka message consumption with pluggable message handling
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer: client,
		handler:  cfg.Handler,
		topic:    cfg.Topic,
		groupID:  cfg.GroupID,
	}, nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log := logging.From(ctx).With("group", c.groupID, "topic", c.topic)
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		retryDelay:     config.KafkaRetryDelay,
		maxRetryDelay:  config.KafkaMaxRetryDelay,
	}

	go func() {
		for err := range c.consumer.Errors() {
			log.Error("kafka consumer error", "error", err)
		}
	}()

	log.Info("kafka consumer starting")
	for {
		if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || errors.Is(err, context.Canceled) {
				return nil
			}
			log.Error("kafka consume failed", "error", err)
		}

		if ctx.Err() != nil {
			log.Info("kafka consumer stopped")
			return nil
		}
	}
}

// Close gracefully shuts down the consumer
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	messageHandler MessageHandler
	retryDelay     time.Duration
	maxRetryDelay  time.Duration
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (h *consumerGroupHandler) Setup(session sarama.ConsumerGroupSession) error {
	logging.From(session.Context()).Info("kafka consumer session started",
		"member", session.MemberID(), "generation", session.GenerationID(), "claims", session.Claims())
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages()
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	log := logging.From(ctx)

	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			log.Debug("kafka message received",
				"partition", message.Partition, "offset", message.Offset, "key", string(message.Key))

			// Marking a later offset commits past this one, so an unmarked
			// message blocks the partition until it is handled.
			if !h.deliver(ctx, message) {
				return nil
			}
			session.MarkMessage(message, "")

		case <-ctx.Done():
			return nil
		}
	}
}

// deliver hands message to the handler until it asks for the message to be
// marked. It returns false when ctx ends first.
func (h *consumerGroupHandler) deliver(ctx context.Context, message *sarama.ConsumerMessage) bool {
	log := logging.From(ctx)
	delay := h.retryDelay

	for {
		shouldMark, err := h.messageHandler.HandleMessage(ctx, message.Value)
		if shouldMark {
			return true
		}
		log.Warn("kafka message not handled, retrying",
			"partition", message.Partition, "offset", message.Offset, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		if delay = delay * 2; delay > h.maxRetryDelay {
			delay = h.maxRetryDelay
		}
	}
}

// TypedMessageHandler is a generic helper that handles JSON decoding
type TypedMessageHandler[T any] struct {
	// Validate checks if the message should be processed
	Validate func(msg *T) error
	// Process handles the actual message processing
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks messages that fail decoding or validation so they are skipped
	AlwaysMark bool
}

// HandleMessage implements MessageHandler interface
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	log := logging.From(ctx)

	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn("failed to unmarshal kafka message", "error", err)
		return h.AlwaysMark, nil
	}

	if h.Validate != nil {
		if err := h.Validate(&msg); err != nil {
			log.Warn("kafka message rejected", "error", err)
			return h.AlwaysMark, nil
		}
	}

	if err := h.Process(ctx, &msg); err != nil {
		return false, err
	}
	return true, nil
}
