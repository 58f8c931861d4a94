package types

import (
	"fmt"
	"strings"
	"time"
)

var scheduleDays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// AvailabilitySchedule restricts when a menu item may be ordered. An empty
// schedule means always orderable. Open/Close use 24h "15:04" clock strings.
type AvailabilitySchedule struct {
	Days  []string `json:"days,omitempty"`
	Open  string   `json:"open,omitempty"`
	Close string   `json:"close,omitempty"`
}

// IsZero reports whether no schedule restriction is configured.
func (s AvailabilitySchedule) IsZero() bool {
	return len(s.Days) == 0 && s.Open == "" && s.Close == ""
}

// Validate checks day names and clock strings.
func (s AvailabilitySchedule) Validate() error {
	for _, day := range s.Days {
		if _, ok := scheduleDays[strings.ToLower(strings.TrimSpace(day))]; !ok {
			return fmt.Errorf("invalid schedule day %q", day)
		}
	}
	if (s.Open == "") != (s.Close == "") {
		return fmt.Errorf("schedule open and close must be set together")
	}
	if s.Open != "" {
		if _, err := time.Parse("15:04", s.Open); err != nil {
			return fmt.Errorf("invalid schedule open %q", s.Open)
		}
		if _, err := time.Parse("15:04", s.Close); err != nil {
			return fmt.Errorf("invalid schedule close %q", s.Close)
		}
	}
	return nil
}

// Covers reports whether the schedule permits ordering at the given time.
func (s AvailabilitySchedule) Covers(at time.Time) bool {
	if s.IsZero() {
		return true
	}
	if len(s.Days) > 0 {
		match := false
		for _, day := range s.Days {
			if scheduleDays[strings.ToLower(strings.TrimSpace(day))] == at.Weekday() {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if s.Open == "" {
		return true
	}
	open, errOpen := time.Parse("15:04", s.Open)
	close, errClose := time.Parse("15:04", s.Close)
	if errOpen != nil || errClose != nil {
		return true
	}
	minutes := at.Hour()*60 + at.Minute()
	openMinutes := open.Hour()*60 + open.Minute()
	closeMinutes := close.Hour()*60 + close.Minute()
	if openMinutes <= closeMinutes {
		return minutes >= openMinutes && minutes <= closeMinutes
	}
	// overnight window, e.g. 18:00-02:00
	return minutes >= openMinutes || minutes <= closeMinutes
}
