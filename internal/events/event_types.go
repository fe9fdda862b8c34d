package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRentalCreated EventType = "rental_created"
	EventRentalUpdated EventType = "rental_updated"
	EventRentalDeleted EventType = "rental_deleted"
	EventRentalsPurged EventType = "rentals_purged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RentalID  int64       `json:"rental_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RentalCreatedPayload payload.
type RentalCreatedPayload struct {
	UserID     int64  `json:"user_id"`
	LapName    string `json:"lap_name"`
	RentalDate string `json:"rental_date"`
}

// RentalUpdatedPayload payload.
type RentalUpdatedPayload struct {
	PendingDeletion *bool `json:"pending_deletion,omitempty"`
	PendingApproval *bool `json:"pending_approval,omitempty"`
}

// RentalDeletedPayload payload.
type RentalDeletedPayload struct {
	UserID  int64  `json:"user_id"`
	LapName string `json:"lap_name"`
}
