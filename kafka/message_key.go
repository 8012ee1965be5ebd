package kafka

import (
	"github.com/Shopify/sarama"
)

// MessageKey carries both the record key (the envelope ID) and the partition
// key (the aggregate ID). The partitioner hashes the partition key, while the
// embedded encoder exposes the record key as the message key on the wire.
type MessageKey struct {
	Key          string
	PartitionKey string
	sarama.StringEncoder
}

// KeyForPartitioning returns the value the partitioner should hash: the
// partition key when set, the record key otherwise.
func (mk MessageKey) KeyForPartitioning() string {
	if mk.PartitionKey == "" {
		return mk.Key
	}
	return mk.PartitionKey
}

func newMessageKey(key, partitionKey string) MessageKey {
	return MessageKey{
		Key:           key,
		PartitionKey:  partitionKey,
		StringEncoder: sarama.StringEncoder(key),
	}
}
