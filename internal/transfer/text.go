package transfer

import (
	"bufio"
	"fmt"
	"io"

	"diary/internal/errs"
	"diary/internal/filter"
	"diary/internal/label"
	"diary/internal/models"
)

// WriteText writes one "date | [status] text (category) [priority]" line
// per task, ordered by date.
func WriteText(w io.Writer, tasks []models.Task) error {
	return writeLines(w, "WriteText", tasks, "%s | %s %s\n")
}

// WriteMonth writes the monthly listing, "date: [status] text (category) [priority]".
func WriteMonth(w io.Writer, tasks []models.Task) error {
	return writeLines(w, "WriteMonth", tasks, "%s: %s %s\n")
}

func writeLines(w io.Writer, op string, tasks []models.Task, format string) error {
	sorted := append([]models.Task(nil), tasks...)
	filter.SortByDate(sorted)

	bw := bufio.NewWriter(w)
	for _, t := range sorted {
		if _, err := fmt.Fprintf(bw, format, models.FormatDate(t.Date), status(t.Done), label.Body(t.Text, t.Category, t.Priority)); err != nil {
			return errs.Wrap(op, errs.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(op, errs.ErrIO, err)
	}
	return nil
}

func status(done bool) string {
	if done {
		return "[✓]"
	}
	return "[ ]"
}
