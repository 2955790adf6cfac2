package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// dateFormat is the wire and storage format for calendar dates.
const dateFormat = "2006-01-02"

// ItineraryDay is one calendar date's worth of scheduled events within a
// plan. Days are owned by their plan and have no independent identity;
// reordering events is a rewrite of the slice, not a move of a referenced
// object.
type ItineraryDay struct {
	Date   time.Time
	Events []Event
}

// dayJSON is the wire/storage shape of an ItineraryDay.
type dayJSON struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// MarshalJSON emits the day with its date as "YYYY-MM-DD" and events always
// as an array, never null.
func (d ItineraryDay) MarshalJSON() ([]byte, error) {
	events := d.Events
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(dayJSON{Date: d.Date.Format(dateFormat), Events: events})
}

// UnmarshalJSON parses the wire shape. The date is interpreted as a pure
// calendar date at UTC midnight.
func (d *ItineraryDay) UnmarshalJSON(data []byte) error {
	var raw dayJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.ParseInLocation(dateFormat, raw.Date, time.UTC)
	if err != nil {
		return err
	}
	d.Date = date
	d.Events = raw.Events
	if d.Events == nil {
		d.Events = []Event{}
	}
	return nil
}

// SortedEvents returns the day's events ordered by time of day: lexicographic
// comparison on the "HH:MM" string, with untimed events (empty Time) first.
// The sort is stable, so events sharing a time keep their stored order.
// The stored slice is never mutated — this is a read-path view only.
func (d ItineraryDay) SortedEvents() []Event {
	out := make([]Event, len(d.Events))
	copy(out, d.Events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// TruncateToDay strips the time-of-day portion, keeping the calendar date in
// the time's own location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two timestamps fall on the same calendar date,
// ignoring time of day. Each timestamp is read in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Reconcile derives the itinerary for the date range [start, end] from a
// previous itinerary, which may be empty.
//
// If either date is missing or start is after end, the result is empty — no
// partial itinerary is produced. Otherwise the result holds exactly one day
// per calendar date in the range, ascending, with no gaps or duplicates. A
// date that already had a day in prev carries its event slice forward
// unchanged, preserving user edits across date-range tweaks; new dates get
// an empty event slice.
//
// The result replaces the itinerary wholesale. Shrinking the range therefore
// drops the events of now-excluded dates.
//
// Reconcile is a fixed point: feeding its own output back with the same
// range yields an identical result.
func Reconcile(prev []ItineraryDay, start, end time.Time) []ItineraryDay {
	if start.IsZero() || end.IsZero() {
		return []ItineraryDay{}
	}
	first := TruncateToDay(start)
	last := TruncateToDay(end)
	if first.After(last) {
		return []ItineraryDay{}
	}

	out := []ItineraryDay{}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := ItineraryDay{Date: d, Events: []Event{}}
		for _, p := range prev {
			if SameDate(p.Date, d) {
				day.Events = p.Events
				break
			}
		}
		out = append(out, day)
	}
	return out
}

// ItineraryEqual reports whether two itineraries hold the same days with the
// same events in the same order. Used for no-op detection on save.
func ItineraryEqual(a, b []ItineraryDay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameDate(a[i].Date, b[i].Date) || len(a[i].Events) != len(b[i].Events) {
			return false
		}
		for j := range a[i].Events {
			if !a[i].Events[j].Equal(b[i].Events[j]) {
				return false
			}
		}
	}
	return true
}
