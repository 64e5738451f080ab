// Package notify is a synchronous observer list: Publish runs every handler on the caller's
// goroutine, in subscription order, before returning.
package notify

import (
	"fmt"
	"sync"

	"coinsreg/pkg/xlog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type EventType string

const (
	EventReset               EventType = "reset"
	EventRowChanged          EventType = "row_changed"
	EventCheckedCountChanged EventType = "checked_count_changed"
	EventLengthChanged       EventType = "length_changed"
)

type SubscriberID int

type HandlerFunc func(Event)

type Event struct {
	Type EventType
	Data any
}

// RowChanged data of EventRowChanged
type RowChanged struct {
	Row   int
	Roles []string
}

// CheckedCountChanged data of EventCheckedCountChanged
type CheckedCountChanged struct {
	Count int
}

// LengthChanged data of EventLengthChanged, View is "" for the registry itself
type LengthChanged struct {
	View string
	Len  int
}

type subscriber struct {
	id        SubscriberID
	eventType EventType // "" receives everything
	handler   HandlerFunc
}

type busMetrics struct {
	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// Bus the subscriber list is guarded so subscribing from another goroutine is safe,
// but handlers are always called without the lock held.
type Bus struct {
	mu        sync.RWMutex
	subs      []subscriber
	lastSubID SubscriberID
	metrics   *busMetrics
}

var logger = xlog.GetLogger()

// NewBus promRegistry may be nil
func NewBus(promRegistry prometheus.Registerer) *Bus {
	b := &Bus{}
	if promRegistry != nil {
		factory := promauto.With(promRegistry)
		b.metrics = &busMetrics{
			events: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "coinsreg_events_total",
				Help: "registry notifications published, by type",
			}, []string{"type"}),
			failures: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "coinsreg_event_handler_panics_total",
				Help: "registry notification handlers that panicked, by type",
			}, []string{"type"}),
		}
	}
	return b
}

// Subscribe registers handler for one event type
func (b *Bus) Subscribe(eventType EventType, handler HandlerFunc) SubscriberID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSubID++
	b.subs = append(b.subs, subscriber{id: b.lastSubID, eventType: eventType, handler: handler})
	return b.lastSubID
}

// SubscribeAll registers handler for every event type
func (b *Bus) SubscribeAll(handler HandlerFunc) SubscriberID {
	return b.Subscribe("", handler)
}

func (b *Bus) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len number of subscribers
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers evt to the matching subscribers. A panicking handler is logged and
// skipped, the remaining handlers still run.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.eventType == "" || s.eventType == evt.Type {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := deliver(s.handler, evt); err != nil {
			logger.Errorf("notify subscriber:%d type:%s failed with err:%s", s.id, evt.Type, err)
			if b.metrics != nil {
				b.metrics.failures.WithLabelValues(string(evt.Type)).Inc()
			}
		}
	}

	if b.metrics != nil {
		b.metrics.events.WithLabelValues(string(evt.Type)).Inc()
	}
}

func deliver(h HandlerFunc, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	h(evt)
	return nil
}
