package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" medium ")
	require.NoError(t, err)
	assert.Equal(t, Medium, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriorityStepping(t *testing.T) {
	assert.Equal(t, Medium, Low.Next())
	assert.Equal(t, High, Medium.Next())
	assert.Equal(t, High, High.Next())
	assert.Equal(t, Low, Low.Prev())
	assert.Equal(t, Medium, High.Prev())
	assert.False(t, Priority("low").Valid())
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", FormatDate(d))

	_, err = ParseDate("01.03.2024")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := DateOf(time.Date(2024, 3, 1, 23, 30, 0, 0, loc))
	want, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}
