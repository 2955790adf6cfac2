// Package domain contains the core data types for the travel planner
// application. This package has no knowledge of HTTP or SQL and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"encoding/json"
	"fmt"
)

// EventKind discriminates the two itinerary event variants.
// The kind of an event is fixed at construction and never changes.
type EventKind string

const (
	// EventVisit is a stay at a single place.
	EventVisit EventKind = "visit"
	// EventMove is a transfer between two places.
	EventMove EventKind = "move"
)

// Visit holds the fields specific to a visit event.
// All fields are free text; content is not validated.
type Visit struct {
	Place        string
	Address      string
	StayDuration string
}

// Move holds the fields specific to a move event.
// All fields are free text; content is not validated.
type Move struct {
	TransportMode string
	Origin        string
	Destination   string
	Duration      string
}

// Event is a single itinerary entry: either a visit or a move.
// Exactly one of the variant pointers is set, matching Kind.
// Time is an optional "HH:MM"-shaped string; events without a time sort
// before all timed events (see ItineraryDay.SortedEvents).
//
// Events have no identity beyond their position and content within a day;
// they are compared for ordering by Time only.
type Event struct {
	Kind  EventKind
	Time  string
	Visit *Visit
	Move  *Move
}

// NewVisit constructs a visit event.
func NewVisit(timeOfDay string, v Visit) Event {
	return Event{Kind: EventVisit, Time: timeOfDay, Visit: &v}
}

// NewMove constructs a move event.
func NewMove(timeOfDay string, m Move) Event {
	return Event{Kind: EventMove, Time: timeOfDay, Move: &m}
}

// eventJSON is the flat wire/storage shape of an Event. Only the fields of
// the active variant are emitted; the inactive variant's fields are absent,
// not empty. This mirrors the document shape the original data used.
type eventJSON struct {
	Kind EventKind `json:"kind"`
	Time string    `json:"time,omitempty"`

	// visit fields
	Place        string `json:"place,omitempty"`
	Address      string `json:"address,omitempty"`
	StayDuration string `json:"stayDuration,omitempty"`

	// move fields
	TransportMode string `json:"transportMode,omitempty"`
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	Duration      string `json:"duration,omitempty"`
}

// MarshalJSON flattens the event into its wire shape.
func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{Kind: e.Kind, Time: e.Time}
	switch e.Kind {
	case EventVisit:
		if e.Visit != nil {
			out.Place = e.Visit.Place
			out.Address = e.Visit.Address
			out.StayDuration = e.Visit.StayDuration
		}
	case EventMove:
		if e.Move != nil {
			out.TransportMode = e.Move.TransportMode
			out.Origin = e.Move.Origin
			out.Destination = e.Move.Destination
			out.Duration = e.Move.Duration
		}
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidation, e.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the flat wire shape back into a tagged Event.
// An unknown kind is a validation failure. Fields belonging to the other
// variant are dropped, so a "visit" can never carry a transportMode.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case EventVisit:
		*e = NewVisit(raw.Time, Visit{
			Place:        raw.Place,
			Address:      raw.Address,
			StayDuration: raw.StayDuration,
		})
	case EventMove:
		*e = NewMove(raw.Time, Move{
			TransportMode: raw.TransportMode,
			Origin:        raw.Origin,
			Destination:   raw.Destination,
			Duration:      raw.Duration,
		})
	default:
		return fmt.Errorf("%w: event kind must be %q or %q, got %q",
			ErrValidation, EventVisit, EventMove, raw.Kind)
	}
	return nil
}

// Equal reports whether two events have identical kind, time, and variant
// fields. Used for no-op detection on save, not for ordering.
func (e Event) Equal(other Event) bool {
	if e.Kind != other.Kind || e.Time != other.Time {
		return false
	}
	switch e.Kind {
	case EventVisit:
		a, b := e.Visit, other.Visit
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	case EventMove:
		a, b := e.Move, other.Move
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	}
	return false
}
