package model

import (
	"net/url"
	"strings"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
)

// Theme is a room-escape experience that can be booked at any time slot.
// A theme cannot be deleted while reservations reference it.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  Description – free-form description.
//  Thumbnail   – URL of the thumbnail image.
type Theme struct {
	ID          uint64 // theme.id
	Name        string // theme.name
	Description string // theme.description
	Thumbnail   string // theme.thumbnail
}

// NewTheme validates the attributes of a theme that has not been
// persisted yet.  Thumbnail may be empty; when set it must be an
// absolute http(s) URL.
func NewTheme(name, description, thumbnail string) (Theme, error) {
	name = strings.TrimSpace(name)
	thumbnail = strings.TrimSpace(thumbnail)
	var fields []errs.FieldError
	if name == "" {
		fields = append(fields, errs.FieldError{Field: "name", Message: "must not be empty"})
	}
	if thumbnail != "" {
		u, err := url.Parse(thumbnail)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields = append(fields, errs.FieldError{Field: "thumbnail", Message: "must be an http(s) URL"})
		}
	}
	if len(fields) > 0 {
		return Theme{}, errs.Validation("invalid theme", fields...)
	}
	return Theme{Name: name, Description: strings.TrimSpace(description), Thumbnail: thumbnail}, nil
}

// ThemeCount pairs a theme with the number of reservations it received
// inside a ranking window.
type ThemeCount struct {
	Theme Theme
	Count int
}
