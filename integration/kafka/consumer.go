//go:build integration
// +build integration

package kafka

import (
	"github.com/Shopify/sarama"
)

// ConsumerHandler adapts a plain consume callback to the sarama consumer
// group interface. The callback flips MessagesFound once everything a test
// expects has arrived on the topic.
type ConsumerHandler struct {
	MessagesFound bool
	Consume       func(message *sarama.ConsumerMessage, c *ConsumerHandler)
}

func (c *ConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.Consume(message, c)
		session.MarkMessage(message, "")
	}

	return nil
}

func (c *ConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *ConsumerHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}
