package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// CatalogHandler serves themes and time slots.  Reads are public; writes
// and deletes are mounted behind the admin role.
type CatalogHandler struct {
	Themes ThemeService
	Times  TimeService
	log    *zap.Logger
}

func NewCatalogHandler(themes ThemeService, times TimeService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Themes: themes, Times: times, log: log.Named("catalog")}
}

type themeReq struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Thumbnail   string `json:"thumbnail" validate:"omitempty,url"`
}

type timeReq struct {
	StartAt string `json:"startAt" validate:"required,hhmm"`
}

func (h *CatalogHandler) ListThemes(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Themes.List(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toTheme))
}

func (h *CatalogHandler) CreateTheme(c echo.Context) error {
	var req themeReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	t, err := h.Themes.Create(ctx, service.CreateTheme{
		Name: req.Name, Description: req.Description, Thumbnail: req.Thumbnail,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toTheme(t))
}

// DeleteTheme answers 409 while reservations still reference the theme.
func (h *CatalogHandler) DeleteTheme(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Themes.Delete(ctx, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListTimes(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Times.List(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toTime))
}

func (h *CatalogHandler) CreateTime(c echo.Context) error {
	var req timeReq
	if err := bind(c, &req); err != nil {
		return fail(c, h.log, err)
	}
	// hhmm has already accepted the value
	startAt, _ := model.ParseTimeOfDay(req.StartAt)

	ctx, cancel := withTimeout(c)
	defer cancel()

	s, err := h.Times.Create(ctx, startAt)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, toTime(s))
}

// DeleteTime answers 409 while reservations still reference the slot.
func (h *CatalogHandler) DeleteTime(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, h.log, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Times.Delete(ctx, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
