package mock

import (
	"context"
	"sync"

	"mapmyissues/models"
)

// Broker is an in-process Subscriber. Publish calls every live callback
// synchronously.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(models.ChangeEvent)

	// Err, when set, is returned by Subscribe.
	Err error
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(models.ChangeEvent))}
}

func (b *Broker) Subscribe(_ context.Context, onChange func(models.ChangeEvent)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Err != nil {
		return nil, b.Err
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = onChange

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}, nil
}

func (b *Broker) Publish(event models.ChangeEvent) {
	b.mu.Lock()
	subs := make([]func(models.ChangeEvent), 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
}

func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
