package handler

import (
	"context"
	"time"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type MemberService interface {
	SignUp(ctx context.Context, in service.SignUp) (model.Member, error)
	Authenticate(ctx context.Context, email, password string) (model.Member, error)
	Get(ctx context.Context, id uint64) (model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}

type ThemeService interface {
	List(ctx context.Context) ([]model.Theme, error)
	Create(ctx context.Context, in service.CreateTheme) (model.Theme, error)
	Delete(ctx context.Context, id uint64) error
}

type TimeService interface {
	List(ctx context.Context) ([]model.TimeSlot, error)
	Create(ctx context.Context, startAt model.TimeOfDay) (model.TimeSlot, error)
	Delete(ctx context.Context, id uint64) error
}

type ReservationService interface {
	Create(ctx context.Context, in service.CreateReservation, ref time.Time) (model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
	ListByMember(ctx context.Context, memberID uint64) ([]model.Reservation, error)
	Cancel(ctx context.Context, id uint64, actor service.Actor, ref time.Time) error
	Availability(ctx context.Context, date model.Date, themeID uint64) ([]model.AvailableTime, error)
}

type RankService interface {
	Popular(ctx context.Context, from, to model.Date, limit int) ([]model.Theme, error)
}

var (
	_ MemberService      = (*service.MemberService)(nil)
	_ ThemeService       = (*service.ThemeService)(nil)
	_ TimeService        = (*service.TimeService)(nil)
	_ ReservationService = (*service.ReservationService)(nil)
	_ RankService        = (*service.RankService)(nil)
)
