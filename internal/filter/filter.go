// Package filter narrows a day's task list by category, priority and text.
package filter

import (
	"sort"
	"strings"

	"diary/internal/models"
)

// Criteria selects tasks. A nil Category or Priority applies no filter on
// that field; an empty Search matches every text.
type Criteria struct {
	Search   string
	Category *string
	Priority *models.Priority
}

// FromSelection builds Criteria from widget selections, mapping the
// "all categories" and "all priorities" entries to no filter.
func FromSelection(search, category, priority string) Criteria {
	c := Criteria{Search: search}
	if category != "" && category != models.AllCategories {
		c.Category = &category
	}
	if priority != "" && priority != models.AllPriorities {
		p := models.Priority(priority)
		c.Priority = &p
	}
	return c
}

// Active reports whether any predicate narrows the result.
func (c Criteria) Active() bool {
	return strings.TrimSpace(c.Search) != "" || c.Category != nil || c.Priority != nil
}

func (c Criteria) Match(t models.Task) bool {
	if c.Category != nil && t.Category != *c.Category {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(c.Search))
	if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
		return false
	}
	return true
}

// Apply returns the tasks accepted by c, preserving their order.
func Apply(tasks []models.Task, c Criteria) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDate orders tasks by date, keeping the input order within a day.
func SortByDate(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Date.Before(tasks[j].Date)
	})
}
