package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Event struct {
	ShopID   uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Writer persists a single audit event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

// Recorder is what use cases depend on to emit audit events.
type Recorder interface {
	Dispatch(ev Event)
}

type Dispatcher struct {
	writer Writer
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(writer Writer) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.writer.Write(context.Background(), ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

// Dispatch never blocks: when the buffer is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops the worker once the buffered events are written.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

// Discard is a Recorder that drops every event.
type Discard struct{}

func (Discard) Dispatch(Event) {}
