// Package calendar holds the month-grid arithmetic for the calendar pane.
// Weeks run Monday through Sunday and cells belonging to the neighboring
// months are left blank rather than dimmed.
package calendar

import "time"

// DayNames are the recurrence weekday labels, Monday first.
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var dayByName = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseDay maps a three-letter label to its weekday.
func ParseDay(name string) (time.Weekday, bool) {
	d, ok := dayByName[name]
	return d, ok
}

// Weeks lays the month out as rows of seven cells. Cells outside the month
// are the zero time.Time.
func Weeks(year int, month time.Month) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysIn := first.AddDate(0, 1, -1).Day()

	var weeks [][]time.Time
	week := make([]time.Time, 7)
	col := mondayIndex(first.Weekday())
	for day := 1; day <= daysIn; day++ {
		week[col] = time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Prev steps the visible month back by one.
func Prev(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

// Next steps the visible month forward by one.
func Next(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

// mondayIndex converts Go's Sunday-based weekday to a Monday-first column.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
