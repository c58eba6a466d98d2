package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// CreateTheme carries the attributes of a new theme.
type CreateTheme struct {
	Name        string
	Description string
	Thumbnail   string
}

type ThemeService struct {
	themes       ThemeStore
	reservations ReservationStore
	log          *zap.Logger
}

func NewThemeService(themes ThemeStore, reservations ReservationStore, log *zap.Logger) *ThemeService {
	return &ThemeService{themes: themes, reservations: reservations, log: log.Named("theme")}
}

func (s *ThemeService) List(ctx context.Context) ([]model.Theme, error) {
	list, err := s.themes.List(ctx)
	if err != nil {
		return nil, errs.Internal("storage failure", err)
	}
	return list, nil
}

func (s *ThemeService) Create(ctx context.Context, in CreateTheme) (model.Theme, error) {
	t, err := model.NewTheme(in.Name, in.Description, in.Thumbnail)
	if err != nil {
		return model.Theme{}, err
	}
	created, err := s.themes.Create(ctx, t)
	if err != nil {
		return model.Theme{}, errs.Internal("storage failure", err)
	}
	return created, nil
}

// Delete removes a theme that no reservation references.  It never
// cascades: a referenced theme yields Conflict and stays in place.
func (s *ThemeService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.themes.GetByID(ctx, id); err != nil {
		return storeErr(err, "theme not found")
	}
	used, err := s.reservations.ExistsByTheme(ctx, id)
	if err != nil {
		return errs.Internal("storage failure", err)
	}
	if used {
		return errs.Conflict(referencedMsg)
	}
	err = s.themes.Delete(ctx, id)
	switch {
	case err == nil:
		s.log.Info("theme deleted", zap.Uint64("theme_id", id))
		return nil
	case errors.Is(err, repository.ErrReferenced):
		return errs.Conflict(referencedMsg)
	default:
		return storeErr(err, "theme not found")
	}
}
