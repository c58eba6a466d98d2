package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// CreateReservation names the references of a new reservation.
type CreateReservation struct {
	Date     model.Date
	TimeID   uint64
	ThemeID  uint64
	MemberID uint64
}

// ReservationService admits, lists and cancels reservations.
type ReservationService struct {
	members      MemberStore
	times        TimeSlotStore
	themes       ThemeStore
	reservations ReservationStore
	events       EventPublisher
	log          *zap.Logger
}

func NewReservationService(
	members MemberStore,
	times TimeSlotStore,
	themes ThemeStore,
	reservations ReservationStore,
	events EventPublisher,
	log *zap.Logger,
) *ReservationService {
	return &ReservationService{
		members:      members,
		times:        times,
		themes:       themes,
		reservations: reservations,
		events:       events,
		log:          log.Named("reservation"),
	}
}

// Create admits a reservation.  The checks run in a fixed order and the
// first failure wins:
//
//  1. member, time slot and theme must exist (NotFound);
//  2. the session must start strictly after ref (InvalidTiming);
//  3. the (date, time, theme) triple must be free (Conflict).
//
// Only then is the reservation persisted.  ref must already be expressed
// in the business time zone.
func (s *ReservationService) Create(ctx context.Context, in CreateReservation, ref time.Time) (model.Reservation, error) {
	member, err := s.members.GetByID(ctx, in.MemberID)
	if err != nil {
		return model.Reservation{}, storeErr(err, fmt.Sprintf("member %d not found", in.MemberID))
	}
	slot, err := s.times.GetByID(ctx, in.TimeID)
	if err != nil {
		return model.Reservation{}, storeErr(err, fmt.Sprintf("time slot %d not found", in.TimeID))
	}
	theme, err := s.themes.GetByID(ctx, in.ThemeID)
	if err != nil {
		return model.Reservation{}, storeErr(err, fmt.Sprintf("theme %d not found", in.ThemeID))
	}

	draft, err := model.NewReservation(member, in.Date, slot, theme)
	if err != nil {
		return model.Reservation{}, err
	}
	if draft.IsPast(ref) {
		return model.Reservation{}, errs.InvalidTiming(fmt.Sprintf(
			"cannot book a time slot that has already passed (%s %s)", draft.Date, slot.StartAt))
	}

	taken, err := s.reservations.ExistsBySlot(ctx, in.Date, slot.ID, theme.ID)
	if err != nil {
		return model.Reservation{}, errs.Internal("storage failure", err)
	}
	if taken {
		return model.Reservation{}, s.conflict(draft)
	}

	created, err := s.reservations.Create(ctx, draft)
	if errors.Is(err, repository.ErrDuplicate) {
		return model.Reservation{}, s.conflict(draft)
	}
	if err != nil {
		return model.Reservation{}, errs.Internal("storage failure", err)
	}

	s.log.Info("reservation created",
		zap.Uint64("reservation_id", created.ID),
		zap.Uint64("member_id", member.ID),
		zap.Stringer("date", created.Date),
		zap.Stringer("time", slot.StartAt),
		zap.Uint64("theme_id", theme.ID))
	s.publish(ctx, queue.EventReservationCreated, created, ref)
	return created, nil
}

func (s *ReservationService) conflict(r model.Reservation) error {
	return errs.Conflict(fmt.Sprintf("time slot already booked for this theme and date (%s %s, %s)",
		r.Date, r.Time.StartAt, r.Theme.Name))
}

// List returns every reservation.
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	list, err := s.reservations.List(ctx)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	return list, nil
}

// ListByMember returns the member's reservations ordered by date then time.
func (s *ReservationService) ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error) {
	list, err := s.reservations.ListByMember(ctx, memberID)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	return list, nil
}

// Cancel deletes a reservation.  Members may cancel their own
// reservations; admins may cancel any.
func (s *ReservationService) Cancel(ctx context.Context, id uint64, actor Actor, ref time.Time) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, fmt.Sprintf("reservation %d not found", id))
	}
	if !actor.IsAdmin() && !res.OwnedBy(actor.MemberID) {
		return errs.Forbidden("reservation belongs to another member")
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return storeErr(err, fmt.Sprintf("reservation %d not found", id))
	}
	s.log.Info("reservation cancelled",
		zap.Uint64("reservation_id", id),
		zap.Uint64("actor_id", actor.MemberID))
	s.publish(ctx, queue.EventReservationCancelled, res, ref)
	return nil
}

// Availability lists every time slot for date and theme, flagging the
// ones already reserved.
func (s *ReservationService) Availability(ctx context.Context, date model.Date, themeID uint64) ([]model.AvailableTime, error) {
	if _, err := s.themes.GetByID(ctx, themeID); err != nil {
		return nil, storeErr(err, fmt.Sprintf("theme %d not found", themeID))
	}
	slots, err := s.times.List(ctx)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	booked, err := s.reservations.BookedTimeIDs(ctx, date, themeID)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	out := make([]model.AvailableTime, 0, len(slots))
	for _, slot := range slots {
		out = append(out, model.AvailableTime{Slot: slot, AlreadyBooked: booked[slot.ID]})
	}
	return out, nil
}

// publish runs after the store has committed; failures are logged only.
func (s *ReservationService) publish(ctx context.Context, typ string, r model.Reservation, at time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, queue.NewReservationEvent(typ, r, at)); err != nil {
		s.log.Warn("publish event failed", zap.String("event", typ), zap.Uint64("reservation_id", r.ID), zap.Error(err))
	}
}
