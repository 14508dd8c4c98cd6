package ics

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"extractmail/internal/models"

	"github.com/emersion/go-ical"
)

// Parser reads events out of a local .ics file and collects the participant
// addresses of the events that fall inside an optional date range.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new Parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Extract parses the calendar at path and returns the set of organizer and
// attendee addresses of events whose start time falls within rng. A zero rng
// accepts every event. Addresses carry a mailto: prefix in the calendar
// encoding; normalization strips it.
func (p *Parser) Extract(path string, rng models.DateRange) (models.EmailSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open calendar file %s: %w", path, err)
	}
	defer f.Close()

	events, err := p.decodeEvents(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrFileFormat, path, err)
	}
	p.logger.Info("Parsed calendar file.", "path", path, "events", len(events))

	set := models.NewEmailSet()
	for _, event := range events {
		if !rng.IsZero() && !rng.Contains(event.StartTime) {
			p.logger.Debug("Event outside date range, skipping.", "title", event.Title, "start", event.StartTime)
			continue
		}
		if event.Organizer != "" && !set.Add(event.Organizer) {
			p.logger.Debug("Organizer is not an email address, skipping.", "title", event.Title, "value", event.Organizer)
		}
		for _, attendee := range event.Attendees {
			if !set.Add(attendee) {
				p.logger.Debug("Attendee is not an email address, skipping.", "title", event.Title, "value", attendee)
			}
		}
	}
	return set, nil
}

// decodeEvents reads every VEVENT from r. A file may hold more than one
// VCALENDAR object; all of them are walked.
func (p *Parser) decodeEvents(r io.Reader) ([]*models.Event, error) {
	var events []*models.Event
	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, item := range cal.Events() {
			events = append(events, p.toInternalEvent(item))
		}
	}
	return events, nil
}

// toInternalEvent converts an iCalendar VEVENT to the internal Event model.
func (p *Parser) toInternalEvent(item ical.Event) *models.Event {
	event := &models.Event{}

	if prop := item.Props.Get(ical.PropUID); prop != nil {
		event.UID = prop.Value
	}
	if prop := item.Props.Get(ical.PropSummary); prop != nil {
		event.Title = prop.Value
	}
	if prop := item.Props.Get(ical.PropOrganizer); prop != nil {
		event.Organizer = prop.Value
	}
	for _, prop := range item.Props.Values(ical.PropAttendee) {
		event.Attendees = append(event.Attendees, prop.Value)
	}

	// All-day events carry a DATE value here; DateTimeStart handles both.
	start, err := item.DateTimeStart(time.UTC)
	if err != nil {
		p.logger.Warn("Event has no usable start time.", "uid", event.UID, "error", err)
	} else {
		event.StartTime = start.UTC()
	}
	return event
}
