package kafka

import (
	"fmt"
	"io"

	"devcart/product-outbox-relay/log"
	"devcart/product-outbox-relay/outbox"

	"github.com/Shopify/sarama"
)

type Publisher interface {
	io.Closer
	Publish(env *outbox.Envelope) error
}

type publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// Publish sends an envelope's payload to the configured topic. The aggregate
// ID is used as the partition key so that all events of one aggregate land on
// the same partition, preserving their relative order for consumers. The
// envelope and event identifiers travel as record headers to give consumers
// a deduplication key, since delivery is at-least-once.
func (p publisher) Publish(env *outbox.Envelope) error {
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   newMessageKey(env.Id.String(), env.AggregateId.String()),
		Value: sarama.ByteEncoder(env.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("envelope_id"), Value: []byte(env.Id.String())},
			{Key: []byte("event_type"), Value: []byte(env.EventType)},
			{Key: []byte("aggregate_type"), Value: []byte(env.AggregateType)},
			{Key: []byte("aggregate_id"), Value: []byte(env.AggregateId.String())},
		},
	})

	if err != nil {
		wrapErr := fmt.Errorf("error producing message in Kafka: %w", err)
		log.Logger.Error(wrapErr)
		return wrapErr
	}

	log.Logger.Debugf("produced message in Kafka (topic: %s, partition: %d, offset: %d)", p.topic, partition, offset)

	return nil
}

func NewPublisher(kafkaHost []string, topic string, cfg *sarama.Config) Publisher {
	return NewPublisherWithProducer(newProducer(cfg, kafkaHost), topic)
}

func NewPublisherWithProducer(prod sarama.SyncProducer, topic string) Publisher {
	return &publisher{
		producer: prod,
		topic:    topic,
	}
}

func newProducer(cfg *sarama.Config, kafkaHosts []string) sarama.SyncProducer {
	producer, err := sarama.NewSyncProducer(kafkaHosts, cfg)
	if err != nil {
		log.Logger.Panicf("could not start kafka producer: %s", err)
	}

	return producer
}

func (p publisher) Close() error {
	return p.producer.Close()
}
