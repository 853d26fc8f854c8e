package models

import "time"

// CalendarEvent is a raw busy event fetched from the external calendar
// source. All-day events carry date strings only; timed events carry full
// timestamps. EndDate is exclusive, following the Google Calendar convention
// for multi-day all-day events.
type CalendarEvent struct {
	StartDate string    // "2006-01-02", set when AllDay
	EndDate   string    // "2006-01-02", exclusive, set when AllDay
	StartTime time.Time // set when !AllDay
	EndTime   time.Time // set when !AllDay
	AllDay    bool
}
