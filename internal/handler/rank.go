package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// RankHandler serves GET /ranks: the most reserved themes of the seven
// days before today.
type RankHandler struct {
	Ranks RankService
	Clock service.Clock
	Limit int
	log   *zap.Logger
}

func NewRankHandler(ranks RankService, clock service.Clock, limit int, log *zap.Logger) *RankHandler {
	return &RankHandler{Ranks: ranks, Clock: clock, Limit: limit, log: log.Named("rank")}
}

func (h *RankHandler) Popular(c echo.Context) error {
	from, to := service.LastWeek(model.DateOf(h.Clock.Now()))
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.Ranks.Popular(ctx, from, to, h.Limit)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, mapSlice(list, toTheme))
}
