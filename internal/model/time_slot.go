package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
)

// TimeOfDay is a wall-clock time with minute precision, stored as the
// number of minutes after midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (seconds are dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayOf returns the time-of-day component of t in t's location,
// truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }
func (t TimeOfDay) After(o TimeOfDay) bool { return t > o }
func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

func (t TimeOfDay) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// Scan implements sql.Scanner.  The MySQL driver returns TIME columns as
// raw bytes even with parseTime=true.
func (t *TimeOfDay) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	default:
		return fmt.Errorf("model: cannot scan %T into TimeOfDay", src)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeSlot is a reusable bookable start time, independent of any date.
// StartAt values are unique across all slots.
//
// Fields:
//  ID      – primary key identifier.
//  StartAt – time of day at which the session starts.
type TimeSlot struct {
	ID      uint64    // reservation_time.id
	StartAt TimeOfDay // reservation_time.start_at
}

// NewTimeSlot returns an unsaved slot starting at startAt.
func NewTimeSlot(startAt TimeOfDay) (TimeSlot, error) {
	if !startAt.Valid() {
		return TimeSlot{}, errs.Validation("invalid time slot",
			errs.FieldError{Field: "startAt", Message: fmt.Sprintf("out of range: %d minutes", int(startAt))})
	}
	return TimeSlot{StartAt: startAt}, nil
}

// StartsAfter reports whether the slot begins strictly after the
// time-of-day component of instant.
func (s TimeSlot) StartsAfter(instant time.Time) bool {
	return s.StartAt.After(TimeOfDayOf(instant))
}

// AvailableTime is one row of the availability listing for a date and
// theme: every slot, flagged when it is already taken.
type AvailableTime struct {
	Slot          TimeSlot
	AlreadyBooked bool
}
