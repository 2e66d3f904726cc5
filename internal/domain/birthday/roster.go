package birthday

import (
	"fmt"
	"time"
)

// Entry pairs a person with their currently known next occurrence.
type Entry struct {
	Person Person
	Next   time.Time

	// announced is the occurrence already put in a due batch. It keeps a
	// stale entry, whose advance failed, from being announced every cycle
	// while it is still retried.
	announced time.Time
}

// HasPassed reports whether the stored occurrence is before now and needs
// to be moved forward.
func (e *Entry) HasPassed(now time.Time) bool {
	return e.Next.Before(now)
}

// IsDue reports whether the entry's occurrence has passed and has not been
// announced yet.
func (e *Entry) IsDue(now time.Time) bool {
	return e.HasPassed(now) && !e.Next.Equal(e.announced)
}

// MarkAnnounced records that the current occurrence was put in a due batch.
func (e *Entry) MarkAnnounced() { e.announced = e.Next }

// Advance replaces Next with the occurrence following now. On failure Next
// is left as it was, so the caller can try again with a later now.
func (e *Entry) Advance(now time.Time) error {
	next, ok := e.Person.Date.NextOccurrence(now)
	if !ok {
		return fmt.Errorf("%w: %s after %s", ErrUnresolvableDate, e.Person.Date, now.Format(time.RFC3339))
	}
	e.Next = next
	return nil
}

// Roster is the set of people being watched. It is owned by a single
// goroutine and is not safe for concurrent use.
type Roster struct {
	entries []*Entry
}

func NewRoster(entries ...*Entry) *Roster {
	return &Roster{entries: entries}
}

func (r *Roster) Add(e *Entry) { r.entries = append(r.entries, e) }

func (r *Roster) Len() int { return len(r.entries) }

// Entries exposes the entries for in-place updates by the roster's owner.
func (r *Roster) Entries() []*Entry { return r.entries }

// Lookup returns the entry for the given name.
func (r *Roster) Lookup(name string) (*Entry, bool) {
	for _, e := range r.entries {
		if e.Person.Name == name {
			return e, true
		}
	}
	return nil, false
}

// People returns a copy of every person on the roster.
func (r *Roster) People() []Person {
	people := make([]Person, 0, len(r.entries))
	for _, e := range r.entries {
		people = append(people, e.Person)
	}
	return people
}
