package agenda

import (
	"sort"
	"time"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
)

// DateGroup is one calendar day of the agenda. Date is YYYY-MM-DD, or empty
// for tasks whose date could not be read.
type DateGroup struct {
	Date  string       `json:"date"`
	Tasks []model.Task `json:"tasks"`
}

// GroupByDate buckets tasks by calendar date in loc. Groups come out in
// ascending date order, with the undated group (if any) last. Inside a group
// open tasks precede completed ones, then High < Medium < Low; ties keep
// their input order.
func GroupByDate(tasks []model.Task, loc *time.Location) []DateGroup {
	buckets := make(map[string][]model.Task)
	for _, t := range tasks {
		key := ""
		if date, err := model.ParseDate(t.Time, loc); err == nil {
			key = model.DateKey(date)
		}
		buckets[key] = append(buckets[key], t)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// ISO keys sort chronologically as strings.
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "" || keys[j] == "" {
			return keys[j] == "" && keys[i] != ""
		}
		return keys[i] < keys[j]
	})

	groups := make([]DateGroup, 0, len(keys))
	for _, k := range keys {
		bucket := buckets[k]
		sort.SliceStable(bucket, func(i, j int) bool {
			return less(bucket[i], bucket[j])
		})
		groups = append(groups, DateGroup{Date: k, Tasks: bucket})
	}
	return groups
}

func less(a, b model.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	return a.Priority.Rank() < b.Priority.Rank()
}
