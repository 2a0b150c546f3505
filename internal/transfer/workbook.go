package transfer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"diary/internal/errs"
	"diary/internal/label"
	"diary/internal/models"
)

const (
	TasksSheet = "Tasks"
	StatsSheet = "Stats"

	doneYes = "Yes"
	doneNo  = "No"
)

// TaskHeader is the first row of the task workbook.
var TaskHeader = []string{"Date", "Task", "Done", "Category", "Priority"}

// StatsHeader is the first row of the stats workbook.
var StatsHeader = []string{"Total tasks", "Done tasks"}

// ImportResult is the outcome of reading a task workbook.
type ImportResult struct {
	Tasks   []models.Task
	Skipped int
}

// WriteWorkbook writes tasks to an xlsx workbook with a single Tasks sheet.
func WriteWorkbook(w io.Writer, tasks []models.Task) error {
	rows := make([][]any, 0, len(tasks))
	for _, t := range tasks {
		done := doneNo
		if t.Done {
			done = doneYes
		}
		rows = append(rows, []any{models.FormatDate(t.Date), t.Text, done, t.Category, string(t.Priority)})
	}
	return writeSheet(w, "WriteWorkbook", TasksSheet, TaskHeader, rows)
}

// WriteStatsWorkbook writes the completion summary to a Stats sheet.
func WriteStatsWorkbook(w io.Writer, st models.Stats) error {
	return writeSheet(w, "WriteStatsWorkbook", StatsSheet, StatsHeader, [][]any{{st.Total, st.Done}})
}

func writeSheet(w io.Writer, op, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errs.Wrap(op, errs.ErrIO, err)
	}
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := setRow(f, sheet, 1, head); err != nil {
		return errs.Wrap(op, errs.ErrIO, err)
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return errs.Wrap(op, errs.ErrIO, err)
		}
	}
	if err := f.Write(w); err != nil {
		return errs.Wrap(op, errs.ErrIO, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// ReadWorkbook parses the first sheet of a task workbook. The header row is
// skipped, as are rows with an empty date or text, an unparsable date, an
// unknown priority or a text or category the label format cannot carry. Missing
// categories and priorities default to models.AllCategories and Low.
func ReadWorkbook(r io.Reader) (ImportResult, error) {
	const op = "ReadWorkbook"
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, errs.Wrap(op, errs.ErrIO, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, errs.E(op, errs.ErrIO, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return ImportResult{}, errs.Wrap(op, errs.ErrIO, err)
	}

	var res ImportResult
	for i, row := range rows {
		if i == 0 {
			continue
		}
		t, ok := parseRow(row)
		if !ok {
			res.Skipped++
			continue
		}
		res.Tasks = append(res.Tasks, t)
	}
	return res, nil
}

func parseRow(row []string) (models.Task, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	dateCell, text := cell(0), cell(1)
	if dateCell == "" || text == "" {
		return models.Task{}, false
	}
	date, err := parseDateCell(dateCell)
	if err != nil {
		return models.Task{}, false
	}

	category := cell(3)
	if category == "" {
		category = models.AllCategories
	}
	priority := models.Low
	if v := cell(4); v != "" {
		if priority, err = models.ParsePriority(v); err != nil {
			return models.Task{}, false
		}
	}
	if label.Check(text, category, priority) != nil {
		return models.Task{}, false
	}
	return models.Task{
		Date:     date,
		Text:     text,
		Done:     strings.EqualFold(cell(2), doneYes),
		Category: category,
		Priority: priority,
	}, true
}

// parseDateCell accepts YYYY-MM-DD text and spreadsheet date serials.
func parseDateCell(v string) (time.Time, error) {
	if d, err := models.ParseDate(v); err == nil {
		return d, nil
	}
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", v, err)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
