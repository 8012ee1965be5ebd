package test

import (
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/go-test/deep"
)

// MockSyncProducer captures produced messages per topic so publisher tests
// can assert on the exact sarama.ProducerMessage that was sent.
type MockSyncProducer struct {
	producedMessages map[string][]*sarama.ProducerMessage
}

func NewMockSyncProducer() *MockSyncProducer {
	return &MockSyncProducer{
		producedMessages: map[string][]*sarama.ProducerMessage{},
	}
}

func (m *MockSyncProducer) MessageWasProduced(topic string, exp *sarama.ProducerMessage) error {
	msgs, ok := m.producedMessages[topic]
	if !ok {
		return fmt.Errorf("0 messages produced for the %s topic", topic)
	}

	for _, msg := range msgs {
		if diff := deep.Equal(exp, msg); diff == nil {
			return nil
		}
	}
	return fmt.Errorf("no message published in topic %s that matches provided message %#v", topic, exp)
}

func (m *MockSyncProducer) ProducedCount(topic string) int {
	return len(m.producedMessages[topic])
}

func (m *MockSyncProducer) SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error) {
	m.producedMessages[msg.Topic] = append(m.producedMessages[msg.Topic], msg)

	return 0, 0, nil
}

func (m *MockSyncProducer) SendMessages(msgs []*sarama.ProducerMessage) error {
	return nil
}

func (m *MockSyncProducer) Close() error {
	return nil
}
