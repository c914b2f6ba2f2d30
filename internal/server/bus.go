package server

import (
	"github.com/charmbracelet/log"
)

// BusPort is the best-effort pub/sub collaborator: publish(subject, bytes).
// The core never requires acknowledgement or replay; a down bus must never
// block game progression.
type BusPort interface {
	Publish(subject string, payload []byte)
}

// AsyncBus is a bounded, non-blocking BusPort. Where a naive publisher would
// iterate subscribers synchronously inside Publish, this version hands the
// payload to a background dispatch goroutine over a bounded channel and
// drops it (logging a warning) rather than ever blocking the caller — the
// table engine's main loop must never stall on a slow or wedged subscriber.
type AsyncBus struct {
	logger      *log.Logger
	subscribers []func(subject string, payload []byte)
	queue       chan busMessage
	done        chan struct{}
}

type busMessage struct {
	subject string
	payload []byte
}

// NewAsyncBus starts the dispatch goroutine with a queue of the given
// depth and returns the bus. Call Close to stop the goroutine.
func NewAsyncBus(queueDepth int, logger *log.Logger) *AsyncBus {
	if logger == nil {
		logger = log.Default()
	}
	b := &AsyncBus{
		logger: logger.WithPrefix("bus"),
		queue:  make(chan busMessage, queueDepth),
		done:   make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Subscribe registers fn to receive every subsequently published message.
// Not safe to call concurrently with Publish; subscribe before the bus is
// handed to any table engine.
func (b *AsyncBus) Subscribe(fn func(subject string, payload []byte)) {
	b.subscribers = append(b.subscribers, fn)
}

// Publish enqueues payload for delivery and returns immediately. If the
// queue is full the message is dropped and logged — bus failure is
// non-fatal and must never block the caller.
func (b *AsyncBus) Publish(subject string, payload []byte) {
	select {
	case b.queue <- busMessage{subject: subject, payload: payload}:
	default:
		b.logger.Warn("dropping event, bus queue full", "subject", subject)
	}
}

func (b *AsyncBus) dispatch() {
	for {
		select {
		case msg := <-b.queue:
			for _, sub := range b.subscribers {
				sub(msg.subject, msg.payload)
			}
		case <-b.done:
			return
		}
	}
}

// Close stops the dispatch goroutine. Pending queued messages are dropped.
func (b *AsyncBus) Close() {
	close(b.done)
}
