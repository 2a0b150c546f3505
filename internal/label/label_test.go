package label

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diary/internal/errs"
	"diary/internal/models"
)

func TestEncode(t *testing.T) {
	assert.Equal(t, "Buy milk (Home) [Low]", Encode("Buy milk", false, "Home", models.Low))
	assert.Equal(t, "[✓] Buy milk (Home) [Low]", Encode("Buy milk", true, "Home", models.Low))
}

func TestDecodeDoneLabel(t *testing.T) {
	p, err := Decode("[✓] Buy milk (Home) [Low]")
	require.NoError(t, err)
	assert.Equal(t, Parts{Text: "Buy milk", Done: true, Category: "Home", Priority: models.Low}, p)
}

func TestRoundTrip(t *testing.T) {
	cases := []Parts{
		{Text: "Buy milk", Category: "Home", Priority: models.Low},
		{Text: "Call mom", Done: true, Category: "Family", Priority: models.High},
		{Text: "x", Category: models.AllCategories, Priority: models.Medium},
		{Text: "Отчёт по проекту ✓", Category: "Работа", Priority: models.High},
		{Text: "a ✓ b", Done: true, Category: "", Priority: models.Low},
		{Text: "spaces  inside  text", Category: "two words", Priority: models.Medium},
	}
	for _, want := range cases {
		t.Run(want.Text, func(t *testing.T) {
			require.NoError(t, Check(want.Text, want.Category, want.Priority))
			got, err := Decode(Encode(want.Text, want.Done, want.Category, want.Priority))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":               "",
		"no priority":         "Buy milk (Home)",
		"no category":         "Buy milk [Low]",
		"trailing junk":       "Buy milk (Home) [Low] x",
		"category after prio": "Buy milk [Low] (Home)",
		"no text":             " (Home) [Low]",
		"missing separator":   "Buy milk(Home) [Low]",
		"marker only":         "[✓] ",
		"unknown priority":    "x (Home) [Urgent]",
		"lowercase priority":  "x (Home) [low]",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrDecode))
		})
	}
}

func TestCheckRejectsReserved(t *testing.T) {
	cases := []struct {
		text, category string
		priority       models.Priority
	}{
		{"Buy (milk)", "Home", models.Low},
		{"Buy milk", "Home]", models.Low},
		{"Buy milk", "Home", "Lo[w"},
		{"[✓] Buy milk", "Home", models.Low},
		{" Buy milk", "Home", models.Low},
		{"   ", "Home", models.Low},
	}
	for _, c := range cases {
		err := Check(c.text, c.category, c.priority)
		assert.True(t, errors.Is(err, errs.ErrValidation), "%q/%q/%q", c.text, c.category, c.priority)
	}
}

func TestEncodeTask(t *testing.T) {
	task := models.Task{ID: 7, Text: "Run", Done: true, Category: "Sport", Priority: models.Medium}
	assert.Equal(t, "[✓] Run (Sport) [Medium]", EncodeTask(task))
	assert.True(t, HasReserved("a(b"))
	assert.False(t, HasReserved("ab"))
}
