// Package calendar renders timestamps in the Jalali (Solar Hijri) calendar.
package calendar

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

type Formatter struct {
	Location *time.Location
}

// NewFormatter returns a formatter for the named IANA zone. An empty name
// selects the process local zone.
func NewFormatter(zone string) (*Formatter, error) {
	if zone == "" {
		return &Formatter{Location: time.Local}, nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	return &Formatter{Location: loc}, nil
}

// Format renders t in the Jalali calendar as YYYY/MM/DD HH:mm,
// e.g. 1403/01/01 12:30.
func (f *Formatter) Format(t time.Time) string {
	loc := time.Local
	if f != nil && f.Location != nil {
		loc = f.Location
	}

	local := t.In(loc)
	pt := ptime.New(local)

	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d",
		pt.Year(), int(pt.Month()), pt.Day(), local.Hour(), local.Minute())
}
