package kafka

import (
	"github.com/Shopify/sarama"
)

type AggregatePartitioner struct {
	topic           string
	hashPartitioner sarama.Partitioner
}

func NewAggregatePartitioner(topic string) sarama.Partitioner {
	return NewAggregatePartitionerWithCustomPartitioner(topic, sarama.NewHashPartitioner(topic))
}

func NewAggregatePartitionerWithCustomPartitioner(topic string, p sarama.Partitioner) sarama.Partitioner {
	return AggregatePartitioner{
		topic:           topic,
		hashPartitioner: p,
	}
}

// Partition hashes the partition key of a MessageKey, falling back to the
// record key when no partition key is set, and to plain hash partitioning for
// messages without a MessageKey at all.
func (o AggregatePartitioner) Partition(message *sarama.ProducerMessage, numPartitions int32) (int32, error) {
	mk, ok := message.Key.(MessageKey)
	if !ok {
		return o.hashPartitioner.Partition(message, numPartitions)
	}

	// set the key on the message temporarily and allow the hashPartitioner to
	// determine the partition for us, we will revert it back afterwards in
	// case the sarama module decides to mutate the message in its
	// hashPartitioner implementation in the future
	message.Key = sarama.StringEncoder(mk.KeyForPartitioning())

	ptn, err := o.hashPartitioner.Partition(message, numPartitions)

	message.Key = mk

	return ptn, err
}

func (o AggregatePartitioner) RequiresConsistency() bool {
	return true
}
