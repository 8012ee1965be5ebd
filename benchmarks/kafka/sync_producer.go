// +build benchmarks

package kafka

import (
	"sync"

	"devcart/product-outbox-relay/kafka"

	"github.com/Shopify/sarama"
)

// SyncProducer wraps a real Kafka producer and counts published messages so
// that benchmarks can wait for a whole batch to land before timing the next.
type SyncProducer struct {
	sync.RWMutex
	realSyncProducer sarama.SyncProducer
	msgsPublished    int
}

func NewSyncProducer(kafkaHost []string) *SyncProducer {
	rp, err := sarama.NewSyncProducer(kafkaHost, kafka.NewSaramaConfig(false, false))
	if err != nil {
		panic(err)
	}

	return &SyncProducer{
		realSyncProducer: rp,
	}
}

func (sp *SyncProducer) GetMessagesPublishedCount() int {
	sp.RLock()
	defer sp.RUnlock()
	return sp.msgsPublished
}

func (sp *SyncProducer) ResetMessagesPublishedCount() {
	sp.Lock()
	defer sp.Unlock()
	sp.msgsPublished = 0
}

func (sp *SyncProducer) SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error) {
	sp.Lock()
	defer sp.Unlock()

	pt, off, err := sp.realSyncProducer.SendMessage(msg)
	sp.msgsPublished++

	return pt, off, err
}

func (sp *SyncProducer) SendMessages(msgs []*sarama.ProducerMessage) error {
	return nil
}

func (sp *SyncProducer) Close() error {
	return nil
}
