package models

import (
	"encoding/json"
	"time"
)

// WebhookEventStatusChange is the only event type the API emits.
const WebhookEventStatusChange = "status_change"

// EventInfo describes the transition carried by a webhook delivery.
type EventInfo struct {
	Type           string      `json:"type"`
	Timestamp      time.Time   `json:"timestamp"`
	PreviousStatus AgentStatus `json:"previousStatus,omitempty"`
}

// WebhookEvent is the payload POSTed to a caller-hosted webhook endpoint:
// the agent snapshot plus the event block.
type WebhookEvent struct {
	Agent
	Event EventInfo `json:"event"`

	// Raw is the delivery body as received.
	Raw json.RawMessage `json:"-"`
}
