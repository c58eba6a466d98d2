package model

import (
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
)

// Reservation binds one member to one theme at one time slot on one
// date.  The (Date, Time.ID, Theme.ID) triple is unique.  Member, Time
// and Theme are shared references resolved when the reservation is
// loaded, so a Reservation is always a fully materialized view.
//
// Fields:
//  ID     – primary key identifier.
//  Member – owning member.
//  Date   – calendar date of the session.
//  Time   – booked time slot.
//  Theme  – booked theme.
type Reservation struct {
	ID     uint64   // reservation.id
	Member Member   // reservation.member_id
	Date   Date     // reservation.date
	Time   TimeSlot // reservation.time_id
	Theme  Theme    // reservation.theme_id
}

// NewReservation builds an unsaved reservation from already resolved
// references.  All three references must carry persisted ids.
func NewReservation(member Member, date Date, slot TimeSlot, theme Theme) (Reservation, error) {
	var fields []errs.FieldError
	if member.ID == 0 {
		fields = append(fields, errs.FieldError{Field: "memberId", Message: "must reference a saved member"})
	}
	if date.IsZero() {
		fields = append(fields, errs.FieldError{Field: "date", Message: "must not be empty"})
	}
	if slot.ID == 0 {
		fields = append(fields, errs.FieldError{Field: "timeId", Message: "must reference a saved time slot"})
	}
	if theme.ID == 0 {
		fields = append(fields, errs.FieldError{Field: "themeId", Message: "must reference a saved theme"})
	}
	if len(fields) > 0 {
		return Reservation{}, errs.Validation("invalid reservation", fields...)
	}
	return Reservation{Member: member, Date: date, Time: slot, Theme: theme}, nil
}

// IsPast reports whether the reservation's session has already begun
// relative to ref: an earlier date, or the same date with a start time
// that is not strictly after ref's time of day.
func (r Reservation) IsPast(ref time.Time) bool {
	today := DateOf(ref)
	if r.Date.Before(today) {
		return true
	}
	return r.Date.Equal(today) && !r.Time.StartsAfter(ref)
}

// OwnedBy reports whether memberID owns the reservation.
func (r Reservation) OwnedBy(memberID uint64) bool { return r.Member.ID == memberID }
