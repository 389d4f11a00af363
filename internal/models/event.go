// server/internal/models/event.go
package models

import "time"

// Event is one entry in the webhook/event log.
type Event struct {
	ID        string         `json:"id" bson:"eventId"`
	Source    string         `json:"source" bson:"source"`
	Type      string         `json:"type" bson:"type"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Payload   map[string]any `json:"payload" bson:"payload"`
}
