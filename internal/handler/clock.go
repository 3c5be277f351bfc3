package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/validation"
)

// Clock resolves "today" for a request. The tz query parameter overrides Location.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{Location: loc, Now: time.Now}
}

func (c *Clock) Today(r *http.Request) (civil.Date, error) {
	loc := c.Location
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return civil.Date{}, apperr.Validation("tz", "must be an IANA time zone")
		}
		loc = l
	}
	return civil.DateOf(c.Now().In(loc)), nil
}

// DateParam parses the query parameter name, defaulting to today when it is absent.
func (c *Clock) DateParam(r *http.Request, name string) (civil.Date, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return c.Today(r)
	}
	return validation.ParseDate(name, value)
}
