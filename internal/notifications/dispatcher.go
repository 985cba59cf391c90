// Package notifications turns engagement events into stored notifications.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/snapfeed/backend/internal/models"
	"github.com/anonto42/snapfeed/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// Event is emitted by a successful engagement mutation
type Event struct {
	Type        string
	ActorID     uint
	RecipientID uint
	PostID      uint
	CommentID   uint
	At          time.Time
}

// Publisher accepts events without blocking the caller
type Publisher interface {
	Publish(ev Event)
}

// Discard drops every event
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

const (
	defaultBuffer = 256
	writeTimeout  = 5 * time.Second
)

// Dispatcher persists events on a single background worker
type Dispatcher struct {
	repo   repositories.NotificationRepository
	log    logrus.FieldLogger
	events chan Event
	done   chan struct{}
	once   sync.Once
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the worker. A non-positive buffer uses the default size.
func NewDispatcher(repo repositories.NotificationRepository, log logrus.FieldLogger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		repo:   repo,
		log:    log,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish queues the event. Self-notifications are dropped, and so is any event that
// arrives while the queue is full or after Close.
func (d *Dispatcher) Publish(ev Event) {
	if ev.RecipientID == 0 || ev.ActorID == ev.RecipientID {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.events <- ev:
	default:
		d.log.WithField("type", ev.Type).Warn("notification queue full, dropping event")
	}
}

// Close stops accepting events and waits until queued ones are written
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.events {
		n := &models.Notification{
			Type:        ev.Type,
			ActorID:     ev.ActorID,
			RecipientID: ev.RecipientID,
			PostID:      ev.PostID,
			CommentID:   ev.CommentID,
			CreatedAt:   ev.At,
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.repo.CreateNotification(ctx, n); err != nil {
			d.log.WithError(err).WithField("type", ev.Type).Error("failed to store notification")
		}
		cancel()
	}
}
