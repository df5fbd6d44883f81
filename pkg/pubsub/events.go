// pkg/pubsub/events.go
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
)

const (
	EventCartUpdated = "cart.updated"

	defaultPublishTimeout = 10 * time.Second
)

// CartEvent is the payload published to the cart topic after a mutation.
type CartEvent struct {
	Event      string    `json:"event"`
	CartID     string    `json:"cart_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

// Emitter publishes cart lifecycle events. Publication failures are logged
// and never surfaced to the caller.
type Emitter struct {
	pub  publisher
	logg *logger.Logger
}

// NewEmitter wraps the cart topic publisher. A nil client yields an emitter
// that drops events, which keeps local setups without GCP working.
func NewEmitter(client *Client, logg *logger.Logger) *Emitter {
	e := &Emitter{logg: logg}
	if client != nil {
		if p := client.CartPublisher(); p != nil {
			e.pub = &gcpPublisher{Publisher: p}
		}
	}
	return e
}

// EmitCartUpdated publishes a cart.updated event for the given cart.
func (e *Emitter) EmitCartUpdated(ctx context.Context, cartID string) {
	if e == nil {
		return
	}
	event := CartEvent{
		Event:      EventCartUpdated,
		CartID:     cartID,
		OccurredAt: time.Now().UTC(),
	}
	if err := e.publish(ctx, event); err != nil && e.logg != nil {
		logCtx := e.logg.WithFields(ctx, map[string]any{
			"event":   event.Event,
			"cart_id": event.CartID,
		})
		e.logg.Warn(logCtx, fmt.Sprintf("publishing cart event: %v", err))
	}
}

func (e *Emitter) publish(ctx context.Context, event CartEvent) error {
	if e.pub == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding cart event: %w", err)
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event":   event.Event,
			"cart_id": event.CartID,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := e.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return err
	}
	return nil
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*pubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
