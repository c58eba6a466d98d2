// Package service holds the booking rules: reservation admission,
// guarded deletion of themes and time slots, time slot uniqueness and
// popularity ranking.  Services depend on the store interfaces declared
// here and never read the wall clock themselves; callers pass the
// reference instant explicitly.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

type MemberStore interface {
	Create(ctx context.Context, m model.Member) (model.Member, error)
	GetByID(ctx context.Context, id uint64) (model.Member, error)
	GetByEmail(ctx context.Context, email string) (model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}

type ThemeStore interface {
	Create(ctx context.Context, t model.Theme) (model.Theme, error)
	GetByID(ctx context.Context, id uint64) (model.Theme, error)
	List(ctx context.Context) ([]model.Theme, error)
	Delete(ctx context.Context, id uint64) error
}

type TimeSlotStore interface {
	Create(ctx context.Context, s model.TimeSlot) (model.TimeSlot, error)
	GetByID(ctx context.Context, id uint64) (model.TimeSlot, error)
	List(ctx context.Context) ([]model.TimeSlot, error)
	ExistsByStartAt(ctx context.Context, startAt model.TimeOfDay) (bool, error)
	Delete(ctx context.Context, id uint64) error
}

type ReservationStore interface {
	Create(ctx context.Context, r model.Reservation) (model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
	ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error)
	ExistsBySlot(ctx context.Context, date model.Date, timeID, themeID uint64) (bool, error)
	ExistsByTheme(ctx context.Context, themeID uint64) (bool, error)
	ExistsByTime(ctx context.Context, timeID uint64) (bool, error)
	BookedTimeIDs(ctx context.Context, date model.Date, themeID uint64) (map[uint64]bool, error)
	Delete(ctx context.Context, id uint64) error
	CountByThemeBetween(ctx context.Context, from, to model.Date) ([]model.ThemeCount, error)
}

// EventPublisher receives reservation events after the store commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Clock supplies the reference instant used for timing checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Actor is the authenticated caller of an operation.
type Actor struct {
	MemberID uint64
	Role     model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

const referencedMsg = "cannot delete: still referenced by existing reservations"

// storeErr converts a repository failure into a core error.  Missing rows
// become NotFound with the given message; anything unexpected is Internal.
func storeErr(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errs.NotFound(notFound)
	}
	return errs.Internal("storage failure", err)
}
