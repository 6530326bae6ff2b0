package audit

import "github.com/kalakriti-store/commerce-api/internal/logger"

type Event struct {
	Actor    string
	Action   string
	Entity   string
	EntityID *string
	Metadata any
}

// Sink persists audit events; Logger is the gorm-backed implementation.
type Sink interface {
	Log(actor, action, entity string, entityID *string, metadata any) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Log(
			ev.Actor,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			logger.ErrorLogger.Errorf("audit error: %v", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// queue full: drop the event, never block the API
		logger.WarnLogger.Warn("audit queue full, dropping event")
	}
}
