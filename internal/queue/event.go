// Package queue defines reservation events and moves them over RabbitMQ.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-escape-reservation/internal/model"
)

// Event types published on the reservation queue.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is committed or
// cancelled.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ReservationEvent struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	MemberID      uint64 `json:"member_id"`
	MemberName    string `json:"member_name"`
	ThemeID       uint64 `json:"theme_id"`
	ThemeName     string `json:"theme_name"`
	TimeID        uint64 `json:"time_id"`
	StartAt       string `json:"start_at"`
	Date          string `json:"date"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type for r.
func NewReservationEvent(typ string, r model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		ID:            uuid.NewString(),
		Type:          typ,
		ReservationID: r.ID,
		MemberID:      r.Member.ID,
		MemberName:    r.Member.Name,
		ThemeID:       r.Theme.ID,
		ThemeName:     r.Theme.Name,
		TimeID:        r.Time.ID,
		StartAt:       r.Time.StartAt.String(),
		Date:          r.Date.String(),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
