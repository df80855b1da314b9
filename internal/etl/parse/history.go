// internal/etl/parse/history.go
package parse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentEvent is one decoded entry of an appointment history field.
type AppointmentEvent struct {
	Date      time.Time
	Type      string
	Attendees string
	Outcome   string
	Notes     string
}

// AppointmentHistory decodes a " | "-joined appointment history. Each
// record is up to four " - "-delimited segments: date, type, attendees,
// outcome. A record with an unparsable date is skipped on its own; the
// rest of the history survives.
func AppointmentHistory(raw string) []AppointmentEvent {
	var events []AppointmentEvent
	if !present(raw) {
		return events
	}

	for _, record := range strings.Split(raw, " | ") {
		parts := strings.Split(strings.TrimSpace(record), " - ")
		if len(parts) < 2 {
			continue
		}

		date := Date(parts[0])
		if !date.Valid {
			continue
		}

		event := AppointmentEvent{
			Date:  date.Time,
			Type:  MapAppointmentType(strings.TrimSpace(parts[1])),
			Notes: record,
		}
		if len(parts) > 2 {
			event.Attendees = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			event.Outcome = strings.TrimSpace(parts[3])
		}

		events = append(events, event)
	}

	return events
}

// CommissionSplit holds the labeled halves of a commission split field.
type CommissionSplit struct {
	Listing decimal.NullDecimal
	Selling decimal.NullDecimal
}

// Commission extracts "Listing: <amount>" and "Selling: <amount>" from a
// comma-joined split field. Either half may be absent.
func Commission(raw string) CommissionSplit {
	var split CommissionSplit
	if !present(raw) {
		return split
	}

	for _, part := range strings.Split(raw, ", ") {
		switch {
		case strings.Contains(part, "Listing:"):
			split.Listing = Decimal(strings.Replace(part, "Listing:", "", 1))
		case strings.Contains(part, "Selling:"):
			split.Selling = Decimal(strings.Replace(part, "Selling:", "", 1))
		}
	}

	return split
}

// DocumentRef is one named document with its mapped type.
type DocumentRef struct {
	Name string
	Type string
}

// Documents splits a comma-joined document list, mapping each free-text
// name to the document type enumeration (default "other").
func Documents(raw string) []DocumentRef {
	var docs []DocumentRef
	if !present(raw) {
		return docs
	}

	for _, name := range strings.Split(raw, ", ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		docs = append(docs, DocumentRef{
			Name: name,
			Type: MapDocumentType(name),
		})
	}

	return docs
}
