package planner

import (
	"errors"
	"strings"
	"time"

	"calendo/internal/storage"
)

var (
	// ErrEmptyText rejects tasks whose text is empty or whitespace.
	ErrEmptyText = errors.New("task text is empty")
	// ErrPastDate rejects mutations of active tasks on dates before today.
	ErrPastDate = errors.New("date is in the past")
)

// Clock supplies the current time so that today-relative rules can be
// tested with a fixed date.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Highlight is the calendar cell color class for a date.
type Highlight int

const (
	HighlightNone Highlight = iota
	// HighlightToday marks today, unconditionally, whatever its tasks.
	HighlightToday
	// HighlightOverdue marks past dates that still have active tasks.
	HighlightOverdue
	// HighlightDone marks dates with no active tasks and at least one
	// completed one.
	HighlightDone
)

// Recurrence describes a repeating task request: every day in
// [Start, End] whose weekday is in Days gets its own active task.
type Recurrence struct {
	Start time.Time
	End   time.Time
	Days  map[time.Weekday]bool
}

// Day is everything the presentation needs for the selected date.
type Day struct {
	Date      time.Time
	Active    []storage.Task
	Completed []storage.Task
	// ReadOnly is set for dates before today: no adds, no completing,
	// no deleting of active tasks. Completed tasks stay toggle-able
	// back to active even then.
	ReadOnly bool
}

// Planner mediates between the selected date, the store and the calendar
// highlight state. One Planner is constructed at startup; it owns the
// current-date selection instead of scattering it through the view layer.
type Planner struct {
	store   *storage.Store
	clock   Clock
	current time.Time
}

func New(store *storage.Store, clock Clock) *Planner {
	p := &Planner{store: store, clock: clock}
	p.current = p.Today()
	return p
}

// Today returns the current wall-clock date, truncated to midnight.
func (p *Planner) Today() time.Time {
	return dateOnly(p.clock.Now())
}

// SelectDate changes the selected date. The caller reloads Day and the
// visible month's Highlights afterwards.
func (p *Planner) SelectDate(d time.Time) {
	p.current = dateOnly(d)
}

func (p *Planner) Current() time.Time { return p.current }

// Day loads the selected date's active and completed tasks.
func (p *Planner) Day() (Day, error) {
	date := formatDate(p.current)
	active, err := p.store.TasksForDate(date)
	if err != nil {
		return Day{}, err
	}
	completed, err := p.store.CompletedForDate(date)
	if err != nil {
		return Day{}, err
	}
	return Day{
		Date:      p.current,
		Active:    active,
		Completed: completed,
		ReadOnly:  p.current.Before(p.Today()),
	}, nil
}

// AddTask adds a single active task on the selected date.
func (p *Planner) AddTask(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if p.current.Before(p.Today()) {
		return ErrPastDate
	}
	return p.store.Add(formatDate(p.current), text)
}

// AddRecurring expands the recurrence and inserts the whole batch in one
// transaction. An empty expansion (Start after End, or no matching
// weekday) inserts nothing and is not an error.
func (p *Planner) AddRecurring(text string, rec Recurrence) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	return p.store.AddBatch(Expand(text, rec))
}

// Expand generates one entry per date in [rec.Start, rec.End] whose
// weekday is in rec.Days, iterating start to end inclusive.
func Expand(text string, rec Recurrence) []storage.Entry {
	var entries []storage.Entry
	for d := dateOnly(rec.Start); !d.After(dateOnly(rec.End)); d = d.AddDate(0, 0, 1) {
		if rec.Days[d.Weekday()] {
			entries = append(entries, storage.Entry{Date: formatDate(d), Text: text})
		}
	}
	return entries
}

// ToggleComplete moves a task between the stores. Completing is refused on
// past dates; uncompleting is allowed on any date so an overdue day can
// still be corrected.
func (p *Planner) ToggleComplete(t storage.Task, completed bool) error {
	if completed {
		if p.current.Before(p.Today()) {
			return ErrPastDate
		}
		return p.store.Complete(t.ID, t.Date, t.Text)
	}
	return p.store.Uncomplete(t.ID, t.Date, t.Text)
}

// Delete removes a task from whichever store it lives in. Active tasks on
// past dates are read-only and cannot be deleted.
func (p *Planner) Delete(t storage.Task, completed bool) error {
	if completed {
		return p.store.DeleteCompleted(t.ID)
	}
	if p.current.Before(p.Today()) {
		return ErrPastDate
	}
	return p.store.DeleteTask(t.ID)
}

// Highlights computes the cell colors for every date of the visible
// year+month that carries tasks, plus today. Dates outside the visible
// month are deliberately skipped; only the shown month is recolored per
// selection.
func (p *Planner) Highlights(year int, month time.Month) (map[string]Highlight, error) {
	today := p.Today()
	out := map[string]Highlight{}

	dates, err := p.store.AllTaskDates()
	if err != nil {
		return nil, err
	}
	for date := range dates {
		d, err := time.ParseInLocation(storage.DateLayout, date, today.Location())
		if err != nil {
			continue
		}
		if d.Year() != year || d.Month() != month {
			continue
		}
		if d.Equal(today) {
			continue // today's color wins below
		}
		active, err := p.store.TasksForDate(date)
		if err != nil {
			return nil, err
		}
		if len(active) > 0 {
			if d.Before(today) {
				out[date] = HighlightOverdue
			}
			// future dates with open tasks stay uncolored
			continue
		}
		done, err := p.store.CompletedForDate(date)
		if err != nil {
			return nil, err
		}
		if len(done) > 0 {
			out[date] = HighlightDone
		}
	}
	out[formatDate(today)] = HighlightToday
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatDate(t time.Time) string {
	return t.Format(storage.DateLayout)
}
