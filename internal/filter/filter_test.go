package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"diary/internal/models"
)

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sample() []models.Task {
	return []models.Task{
		{ID: 1, Date: day("2024-03-01"), Text: "Buy milk", Category: "Home", Priority: models.Low},
		{ID: 2, Date: day("2024-03-01"), Text: "Write ABC report", Category: "Work", Priority: models.High},
		{ID: 3, Date: day("2024-03-01"), Text: "abc warmup", Done: true, Category: "Sport", Priority: models.Medium},
		{ID: 4, Date: day("2024-03-01"), Text: "Fix sink", Category: "Home", Priority: models.High},
	}
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestApplyIdentity(t *testing.T) {
	tasks := sample()
	c := FromSelection("", models.AllCategories, models.AllPriorities)

	assert.False(t, c.Active())
	assert.Equal(t, tasks, Apply(tasks, c))
	assert.Equal(t, tasks, Apply(tasks, Criteria{}))
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	got := Apply(sample(), Criteria{Search: "abc"})
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestApplyComposes(t *testing.T) {
	home := "Home"
	high := models.High

	assert.Equal(t, []int64{1, 4}, ids(Apply(sample(), Criteria{Category: &home})))
	assert.Equal(t, []int64{2, 4}, ids(Apply(sample(), Criteria{Priority: &high})))
	assert.Equal(t, []int64{4}, ids(Apply(sample(), Criteria{Category: &home, Priority: &high})))
	assert.Empty(t, Apply(sample(), Criteria{Search: "milk", Priority: &high}))
}

func TestApplyOrderIndependent(t *testing.T) {
	home := "Home"
	c := Criteria{Search: "i", Category: &home}
	step := Apply(Apply(sample(), Criteria{Search: "i"}), Criteria{Category: &home})
	assert.Equal(t, Apply(sample(), c), step)
}

func TestFromSelection(t *testing.T) {
	c := FromSelection("milk", "Home", "High")
	if assert.NotNil(t, c.Category) && assert.NotNil(t, c.Priority) {
		assert.Equal(t, "Home", *c.Category)
		assert.Equal(t, models.High, *c.Priority)
	}
	assert.True(t, c.Active())
}

func TestSortByDate(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Date: day("2024-03-10")},
		{ID: 2, Date: day("2023-03-05")},
		{ID: 3, Date: day("2024-03-10")},
		{ID: 4, Date: day("2024-01-01")},
	}
	SortByDate(tasks)
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(tasks))
}
