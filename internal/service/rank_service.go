package service

import (
	"context"
	"sort"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
)

type RankService struct {
	reservations ReservationStore
}

func NewRankService(reservations ReservationStore) *RankService {
	return &RankService{reservations: reservations}
}

// Popular ranks themes by the number of reservations dated within
// [from, to], most reserved first.  Equal counts are ordered by theme id
// ascending.  Themes with no reservation in the range are left out.
// limit <= 0 returns every ranked theme.
func (s *RankService) Popular(ctx context.Context, from, to model.Date, limit int) ([]model.Theme, error) {
	if from.IsZero() || to.IsZero() {
		return nil, errs.Validation("invalid range",
			errs.FieldError{Field: "from", Message: "must not be empty"})
	}
	if from.After(to) {
		return nil, errs.Validation("invalid range",
			errs.FieldError{Field: "from", Message: "must not be after " + to.String()})
	}
	counts, err := s.reservations.CountByThemeBetween(ctx, from, to)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Theme.ID < counts[j].Theme.ID
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	out := make([]model.Theme, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Theme)
	}
	return out, nil
}

// LastWeek returns the ranking window used by the HTTP layer: the seven
// days before the reference date, excluding the reference date itself.
func LastWeek(ref model.Date) (from, to model.Date) {
	return ref.AddDays(-7), ref.AddDays(-1)
}
