package kafka

import (
	"devcart/product-outbox-relay/outbox"

	"github.com/Shopify/sarama"
)

type MessageExpectation struct {
	Env     *outbox.Envelope
	Headers []*sarama.RecordHeader
	Key     []byte
}
