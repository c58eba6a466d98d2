package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

type TimeService struct {
	times        TimeSlotStore
	reservations ReservationStore
	log          *zap.Logger
}

func NewTimeService(times TimeSlotStore, reservations ReservationStore, log *zap.Logger) *TimeService {
	return &TimeService{times: times, reservations: reservations, log: log.Named("time")}
}

// List returns every slot ordered by start time.
func (s *TimeService) List(ctx context.Context) ([]model.TimeSlot, error) {
	list, err := s.times.List(ctx)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	return list, nil
}

// Create adds a slot.  Start times are unique; a second slot at the same
// time of day yields Conflict.
func (s *TimeService) Create(ctx context.Context, startAt model.TimeOfDay) (model.TimeSlot, error) {
	slot, err := model.NewTimeSlot(startAt)
	if err != nil {
		return model.TimeSlot{}, err
	}
	taken, err := s.times.ExistsByStartAt(ctx, startAt)
	if err != nil {
		return model.TimeSlot{}, errs.Internal("storage failure", err)
	}
	if taken {
		return model.TimeSlot{}, errs.Conflict("time slot already exists: " + startAt.String())
	}
	created, err := s.times.Create(ctx, slot)
	if errors.Is(err, repository.ErrDuplicate) {
		return model.TimeSlot{}, errs.Conflict("time slot already exists: " + startAt.String())
	}
	if err != nil {
		return model.TimeSlot{}, errs.Internal("storage failure", err)
	}
	return created, nil
}

// Delete removes a slot that no reservation references.
func (s *TimeService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.times.GetByID(ctx, id); err != nil {
		return storeErr(err, "time slot not found")
	}
	used, err := s.reservations.ExistsByTime(ctx, id)
	if err != nil {
		return errs.Internal("storage failure", err)
	}
	if used {
		return errs.Conflict(referencedMsg)
	}
	err = s.times.Delete(ctx, id)
	switch {
	case err == nil:
		s.log.Info("time slot deleted", zap.Uint64("time_id", id))
		return nil
	case errors.Is(err, repository.ErrReferenced):
		return errs.Conflict(referencedMsg)
	default:
		return storeErr(err, "time slot not found")
	}
}
