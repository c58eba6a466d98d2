package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

const requestTimeout = 5 * time.Second

// fail writes err as a JSON error response.  Kinds map onto statuses;
// internal failures are logged and hidden behind a generic message.
func fail(c echo.Context, log *zap.Logger, err error) error {
	kind := errs.KindOf(err)
	status := statusOf(kind)
	if kind == errs.KindInternal {
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		// *errs.Error hides its cause from Error()
		var e *errs.Error
		if errors.As(err, &e) && e.Unwrap() != nil {
			fields = append(fields, zap.NamedError("cause", e.Unwrap()))
		}
		log.Error("request failed", fields...)
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	body := echo.Map{"error": err.Error()}
	var e *errs.Error
	if errors.As(err, &e) {
		body["error"] = e.Message
		if len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
	}
	return c.JSON(status, body)
}

func statusOf(k errs.Kind) int {
	switch k {
	case errs.KindValidation, errs.KindInvalidTiming:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes the request body into req and runs the registered
// validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.Validation("invalid body")
	}
	return c.Validate(req)
}

func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid path parameter",
			errs.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}

// actor returns the session identity placed in the context by
// middleware.Session.
func actor(c echo.Context) (service.Actor, error) {
	id, ok := middleware.MemberID(c)
	if !ok {
		return service.Actor{}, errs.Unauthorized("login required")
	}
	return service.Actor{MemberID: id, Role: middleware.Role(c)}, nil
}

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}
