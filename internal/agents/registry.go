package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler processes one message type.
type Handler func(ctx context.Context, msg Message) error

// Registry is the in-process message bus between agents. Delivery is
// synchronous in the caller's goroutine; the mutex only guards against
// registration interleaving with dispatch during startup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Register subscribes a handler to a message type.
func (r *Registry) Register(msgType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[msgType] = append(r.handlers[msgType], h)
	r.log.WithField("message_type", msgType).Debug("Agent handler registered")
}

// Dispatch delivers the message to every handler registered for its type.
// Handlers run in registration order; the first error stops delivery.
func (r *Registry) Dispatch(ctx context.Context, msg Message) error {
	r.mu.RLock()
	handlers := r.handlers[msg.Type()]
	r.mu.RUnlock()

	if len(handlers) == 0 {
		r.log.WithField("message_type", msg.Type()).Debug("No handler for message")
		return nil
	}

	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			return fmt.Errorf("agent handler for %s failed: %w", msg.Type(), err)
		}
	}
	return nil
}
