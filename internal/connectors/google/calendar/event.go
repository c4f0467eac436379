package calendar

import (
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldEventID     = "event_id"
	FieldCalendarID  = "calendar_id"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldLocation    = "location"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldHTMLLink    = "html_link"
	FieldOrganiser   = "organiser"
	FieldCreated     = "created"
	FieldAttendees   = "attendees"
	FieldRecurringID = "recurring_event_id"
)

// EventToRawResult converts a Google Calendar event to a raw result.
func EventToRawResult(event *calendar.Event, calendarID string) domain.RawResult {
	startTime, endTime := extractEventTimes(event)
	return domain.NewRawResult(domain.ProviderGoogleCalendar).
		Set(FieldEventID, event.Id).
		Set(FieldCalendarID, calendarID).
		Set(FieldTitle, event.Summary).
		Set(FieldContent, buildEventContent(event)).
		Set(FieldLocation, event.Location).
		Set(FieldStartTime, startTime).
		Set(FieldEndTime, endTime).
		Set(FieldStatus, event.Status).
		Set(FieldHTMLLink, event.HtmlLink).
		Set(FieldOrganiser, getOrganiserEmail(event)).
		Set(FieldCreated, event.Created).
		Set(FieldAttendees, attendeeNames(event.Attendees)).
		Set(FieldRecurringID, event.RecurringEventId)
}

// buildEventContent constructs the content string from event details.
func buildEventContent(event *calendar.Event) string {
	var contentParts []string
	if event.Description != "" {
		contentParts = append(contentParts, event.Description)
	}
	if event.Location != "" {
		contentParts = append(contentParts, "Location: "+event.Location)
	}
	if names := attendeeNames(event.Attendees); len(names) > 0 {
		contentParts = append(contentParts, "Attendees: "+strings.Join(names, ", "))
	}
	return strings.Join(contentParts, "\n\n")
}

func attendeeNames(attendees []*calendar.EventAttendee) []string {
	var names []string
	for _, a := range attendees {
		if a.DisplayName != "" {
			names = append(names, a.DisplayName)
		} else if a.Email != "" {
			names = append(names, a.Email)
		}
	}
	return names
}

// extractEventTimes extracts start and end times from an event.
// All-day events only carry a date.
func extractEventTimes(event *calendar.Event) (startTime, endTime string) {
	if event.Start != nil {
		if event.Start.DateTime != "" {
			startTime = event.Start.DateTime
		} else {
			startTime = event.Start.Date
		}
	}
	if event.End != nil {
		if event.End.DateTime != "" {
			endTime = event.End.DateTime
		} else {
			endTime = event.End.Date
		}
	}
	return startTime, endTime
}

// getOrganiserEmail extracts the organiser email from an event.
func getOrganiserEmail(event *calendar.Event) string {
	if event.Organizer != nil { //nolint:misspell // Google API field name
		return event.Organizer.Email //nolint:misspell // Google API field name
	}
	return ""
}
