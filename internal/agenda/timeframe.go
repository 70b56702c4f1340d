// Package agenda turns a user's raw task list into the dated view a client
// renders: a timeframe window, then per-day groups ordered for display.
// Everything here is pure; the reference instant and zone come from the caller.
package agenda

import (
	"time"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
)

type Timeframe string

const (
	All       Timeframe = "all"
	Today     Timeframe = "today"
	Tomorrow  Timeframe = "tomorrow"
	ThisWeek  Timeframe = "thisWeek"
	ThisMonth Timeframe = "thisMonth"
	ThisYear  Timeframe = "thisYear"
)

// ParseTimeframe maps a view label to a Timeframe. Unknown labels (including
// the "add" view) mean no filtering.
func ParseTimeframe(s string) Timeframe {
	switch tf := Timeframe(s); tf {
	case Today, Tomorrow, ThisWeek, ThisMonth, ThisYear:
		return tf
	default:
		return All
	}
}

// Window returns the inclusive calendar range covered by tf, as midnights in
// now's location. ok is false for All.
func (tf Timeframe) Window(now time.Time) (start, end time.Time, ok bool) {
	day := startOfDay(now)

	switch tf {
	case Today:
		return day, day, true
	case Tomorrow:
		next := day.AddDate(0, 0, 1)
		return next, next, true
	case ThisWeek:
		// Monday-based week: Sunday (0) is the last day of the week before it.
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 6), true
	case ThisMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return first, first.AddDate(0, 1, -1), true
	case ThisYear:
		first := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		last := time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())
		return first, last, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterByTimeframe keeps the tasks whose date falls inside tf relative to now.
// Tasks with unparseable dates never match a named window. For All the input
// is returned as a copy, unchanged.
func FilterByTimeframe(tasks []model.Task, tf Timeframe, now time.Time) []model.Task {
	start, end, ok := tf.Window(now)
	if !ok {
		out := make([]model.Task, len(tasks))
		copy(out, tasks)
		return out
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		date, err := model.ParseDate(t.Time, now.Location())
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
