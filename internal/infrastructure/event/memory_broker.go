// Package event implements the change feed behind GET /events.
package event

import (
	"context"
	"sync"

	domainEvent "github.com/sangkips/garage-pos-api/internal/domain/event"
	"go.uber.org/zap"
)

const subscriberBuffer = 64

// MemoryBroker fans changes out to subscribers of this process.
// A subscriber that falls behind loses changes instead of blocking writers.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[chan domainEvent.Change]struct{}
	closed bool
	logger *zap.Logger
}

// NewMemoryBroker creates a new in-process broker
func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[chan domainEvent.Change]struct{}),
		logger: logger,
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, change domainEvent.Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- change:
		default:
			b.logger.Warn("dropping change for slow subscriber",
				zap.String("collection", change.Collection),
				zap.String("id", change.ID),
			)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan domainEvent.Change, error) {
	ch := make(chan domainEvent.Change, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ch)
	}()
	return ch, nil
}

func (b *MemoryBroker) remove(ch chan domainEvent.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Close ends every subscription
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	b.closed = true
	return nil
}

var _ domainEvent.Broker = (*MemoryBroker)(nil)
