package test

import (
	"sync"

	"devcart/product-outbox-relay/outbox"

	"github.com/google/uuid"
)

type MockPublisher struct {
	sync.RWMutex
	published []*outbox.Envelope
	errors    map[uuid.UUID]error
	closed    bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		errors: map[uuid.UUID]error{},
	}
}

func (p *MockPublisher) Publish(env *outbox.Envelope) error {
	p.Lock()
	defer p.Unlock()
	if err, ok := p.errors[env.Id]; ok {
		return err
	}

	p.published = append(p.published, env)

	return nil
}

func (p *MockPublisher) Close() error {
	p.Lock()
	defer p.Unlock()
	p.closed = true
	return nil
}

func (p *MockPublisher) ErrorForEnvelope(id uuid.UUID, err error) {
	p.Lock()
	defer p.Unlock()
	p.errors[id] = err
}

func (p *MockPublisher) Published() []*outbox.Envelope {
	p.RLock()
	defer p.RUnlock()
	return p.published
}

func (p *MockPublisher) EnvelopeWasPublished(id uuid.UUID) bool {
	p.RLock()
	defer p.RUnlock()
	for _, env := range p.published {
		if env.Id == id {
			return true
		}
	}

	return false
}
