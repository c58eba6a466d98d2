package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// ReservationHandler exposes reservation admission to members and
// admins.  Both entry points read the reference instant from the same
// server clock, so an admin booking on behalf of a member is judged
// against server time.
type ReservationHandler struct {
	Reservations ReservationService
	Clock        service.Clock
	log          *zap.Logger
}

func NewReservationHandler(reservations ReservationService, clock service.Clock, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Reservations: reservations, Clock: clock, log: log.Named("reservation")}
}

type reservationReq struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeID  uint64 `json:"timeId" validate:"required"`
	ThemeID uint64 `json:"themeId" validate:"required"`
}

type adminReservationReq struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeID   uint64 `json:"timeId" validate:"required"`
	ThemeID  uint64 `json:"themeId" validate:"required"`
	MemberID uint64 `json:"memberId" validate:"required"`
}

// Create books a slot for the session member.
func (h *ReservationHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	var req reservationReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	return h.create(c, req.Date, req.TimeID, req.ThemeID, a.MemberID)
}

// CreateForMember books a slot on behalf of the member named in the body.
func (h *ReservationHandler) CreateForMember(c echo.Context) error {
	var req adminReservationReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	return h.create(c, req.Date, req.TimeID, req.ThemeID, req.MemberID)
}

func (h *ReservationHandler) create(c echo.Context, rawDate string, timeID, themeID, memberID uint64) error {
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return fail(c, h.log, errs.Validation("invalid request",
			errs.FieldError{Field: "date", Message: "must match " + model.DateLayout}))
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.Reservations.Create(ctx, service.CreateReservation{
		Date: date, TimeID: timeID, ThemeID: themeID, MemberID: memberID,
	}, h.Clock.Now())
	if err != nil {
		return fail(c, h.log, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/reservations/%d", res.ID))
	return c.JSON(http.StatusCreated, toReservation(res))
}

// ListMine returns the session member's reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Reservations.ListByMember(ctx, a.MemberID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toReservation))
}

// List is the admin listing of every reservation.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Reservations.List(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toReservation))
}

// Cancel deletes a reservation owned by the caller, or any reservation
// when the caller is an admin.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return fail(c, h.log, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Reservations.Cancel(ctx, id, a, h.Clock.Now()); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability lists every slot for /books/:date/:themeId with a flag for
// the ones already taken.
func (h *ReservationHandler) Availability(c echo.Context) error {
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		return fail(c, h.log, errs.Validation("invalid path parameter",
			errs.FieldError{Field: "date", Message: "must match " + model.DateLayout}))
	}
	themeID, err := paramID(c, "themeId")
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Reservations.Availability(ctx, date, themeID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, func(a model.AvailableTime) availableTimeResp {
		return availableTimeResp{TimeID: a.Slot.ID, StartAt: a.Slot.StartAt.String(), AlreadyBooked: a.AlreadyBooked}
	}))
}
