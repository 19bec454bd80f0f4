package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Routing keys on the topic exchange.
const (
	RKFittingCreated       = "fitting.created"
	RKFittingStatusChanged = "fitting.status_changed"
	RKFittingRescheduled   = "fitting.rescheduled"

	RKSwingCreated       = "swing.created"
	RKSwingStatusChanged = "swing.status_changed"

	RKGettingStartedActivated = "getting_started.activated"
)

type FittingCreated struct {
	FittingID string    `json:"fitting_id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
}

type StatusChanged struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type FittingRescheduled struct {
	FittingID string    `json:"fitting_id"`
	UserID    string    `json:"user_id"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

type SwingCreated struct {
	SwingID string    `json:"swing_id"`
	UserID  string    `json:"user_id"`
	Date    time.Time `json:"date"`
	Status  string    `json:"status"`
}

type GettingStartedActivated struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
