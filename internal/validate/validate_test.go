package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
)

type reservationReq struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeID  uint64 `json:"timeId" validate:"required,gt=0"`
	ThemeID uint64 `json:"themeId" validate:"required,gt=0"`
}

type timeReq struct {
	StartAt string `json:"startAt" validate:"required,hhmm"`
}

func TestCustomValidator_FieldErrors(t *testing.T) {
	cv := NewCustomValidator()

	err := cv.Validate(reservationReq{Date: "2099-13-01"})
	require.True(t, errors.Is(err, errs.ErrValidation))

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	got := map[string]string{}
	for _, f := range e.Fields {
		got[f.Field] = f.Message
	}
	require.Equal(t, map[string]string{
		"date":    "must match 2006-01-02",
		"timeId":  "is required",
		"themeId": "is required",
	}, got)

	require.NoError(t, cv.Validate(reservationReq{Date: "2099-04-30", TimeID: 1, ThemeID: 1}))
}

func TestCustomValidator_HHMM(t *testing.T) {
	cv := NewCustomValidator()
	require.NoError(t, cv.Validate(timeReq{StartAt: "10:00"}))

	err := cv.Validate(timeReq{StartAt: "25:61"})
	var e *errs.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, []errs.FieldError{{Field: "startAt", Message: "must be a time of day in HH:MM"}}, e.Fields)
}
