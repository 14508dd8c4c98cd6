package models

import "time"

// Event represents a calendar event.
// This is an internal representation, independent of the iCalendar encoding.
type Event struct {
	UID       string    // The iCalendar UID of the event
	Title     string    // Summary or title of the event
	StartTime time.Time // Start time of the event, normalized to UTC
	Organizer string    // Organizer's address as it appears in the calendar
	Attendees []string  // Attendee addresses as they appear in the calendar
}
