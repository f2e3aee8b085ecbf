package services

import (
	"context"
	"log/slog"

	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go/v7"

	"ticketpass/models"
	"ticketpass/utils"
)

// Notifier hands user notifications off to a buffered queue and delivers
// them from a single dispatcher goroutine: a slow or failing notification
// channel can never delay or unwind ticket issuance. PubNub publishes run
// behind a circuit breaker.
type Notifier struct {
	app   core.App
	pn    *pubnub.PubNub
	cb    *utils.CircuitBreaker
	queue chan models.Notification
}

func NewNotifier(app core.App, pn *pubnub.PubNub, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Notifier{
		app:   app,
		pn:    pn,
		cb:    utils.NewCircuitBreaker("pubnub-notify"),
		queue: make(chan models.Notification, queueSize),
	}
}

// Start launches the dispatcher. It returns immediately.
func (n *Notifier) Start(ctx context.Context) {
	go n.dispatch(ctx)
}

// Notify enqueues without blocking. When the queue is full the message is
// dropped with a warning; issuance must never wait on notification delivery.
func (n *Notifier) Notify(msg models.Notification) {
	select {
	case n.queue <- msg:
	default:
		slog.Warn("notification queue full, dropping message",
			"user_id", msg.UserID, "category", msg.Category)
	}
}

func (n *Notifier) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.queue:
			n.deliver(ctx, msg)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, msg models.Notification) {
	if n.app != nil {
		if err := n.saveRecord(msg); err != nil {
			slog.Warn("failed to persist notification", "user_id", msg.UserID, "error", err)
		}
	}

	if n.pn == nil {
		return
	}

	_, err := n.cb.Execute(ctx, func() (any, error) {
		_, _, err := n.pn.Publish().
			Channel("user-" + msg.UserID).
			Message(map[string]any{
				"type":     "notification",
				"title":    msg.Title,
				"message":  msg.Message,
				"category": msg.Category,
				"link":     msg.Link,
			}).
			Execute()
		return nil, err
	})
	if err != nil {
		slog.Warn("failed to publish notification", "user_id", msg.UserID, "error", err)
	}
}

func (n *Notifier) saveRecord(msg models.Notification) error {
	collection, err := n.app.FindCollectionByNameOrId("notifications")
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	record.Set("user_id", msg.UserID)
	record.Set("title", msg.Title)
	record.Set("message", msg.Message)
	record.Set("category", msg.Category)
	record.Set("link", msg.Link)
	record.Set("read", false)

	return n.app.Save(record)
}
