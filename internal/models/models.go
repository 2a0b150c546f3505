// Package models defines the data shared by the store, the codec and the callers.
package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// AllCategories is the category listing head meaning "no category filter".
	// It is never stored as a category row; tasks added without a category carry it.
	AllCategories = "all categories"
	// AllPriorities is the priority selection meaning "no priority filter".
	AllPriorities = "all priorities"

	// DateLayout is the calendar-date format used for storage and file formats.
	DateLayout = "2006-01-02"
)

type Priority string

const (
	Low    Priority = "Low"
	Medium Priority = "Medium"
	High   Priority = "High"
)

// Priorities lists the valid priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{Low, Medium, High}
}

func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

// Next returns the priority one step up, or p itself at the top.
func (p Priority) Next() Priority {
	switch p {
	case Low:
		return Medium
	case Medium:
		return High
	}
	return p
}

// Prev returns the priority one step down, or p itself at the bottom.
func (p Priority) Prev() Priority {
	switch p {
	case High:
		return Medium
	case Medium:
		return Low
	}
	return p
}

// ParsePriority accepts the priority names case-insensitively.
func ParsePriority(v string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(v), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", v)
}

type User struct {
	Username     string
	PasswordHash string
}

type Task struct {
	ID       int64
	Username string
	Date     time.Time
	Text     string
	Done     bool
	Category string
	Priority Priority
}

// Stats is the completion summary of one user's tasks.
type Stats struct {
	Total int
	Done  int
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(v))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates t to its calendar date at UTC midnight, the form ParseDate returns.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
