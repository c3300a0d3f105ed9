// Package messaging publishes committed change scopes to RabbitMQ and
// consumes them in background workers.
package messaging

import (
	"fmt"
	"time"

	"stockview/internal/core/id"
	"stockview/internal/domain"
)

// DefaultExchange is the topic exchange change events are published on.
const DefaultExchange = "inventory.changes"

// RoutingPatternAll binds a queue to every change event.
const RoutingPatternAll = "inventory.#"

// Event is the envelope of one committed change.
type Event struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Source        string             `json:"source"`
	Time          time.Time          `json:"time"`
	CorrelationID string             `json:"correlationId,omitempty"`
	Scope         domain.ChangeScope `json:"scope"`
}

// NewEvent wraps scope in an envelope.
func NewEvent(source, correlationID string, scope domain.ChangeScope) *Event {
	return &Event{
		ID:            id.New().String(),
		Type:          RoutingKey(scope),
		Source:        source,
		Time:          time.Now().UTC(),
		CorrelationID: correlationID,
		Scope:         scope,
	}
}

// RoutingKey names the topic of a change: inventory.<kind>.<action>.
func RoutingKey(scope domain.ChangeScope) string {
	kind := string(scope.Kind)
	if kind == "" {
		kind = "all"
	}
	action := scope.Action
	if action == "" {
		action = "changed"
	}
	return fmt.Sprintf("inventory.%s.%s", kind, action)
}
