package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"diary/internal/config"
	"diary/internal/diary"
	"diary/internal/errs"
	"diary/internal/filter"
	"diary/internal/models"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeCategory
	modeSearch
)

// Model is one user's day view.
type Model struct {
	ctx        context.Context
	svc        *diary.Service
	cfg        config.Config
	user       string
	date       time.Time
	now        func() time.Time
	tasks      []models.Task
	categories []string
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	search     string
	catIndex   int
	prioIndex  int
	dark       bool
	confirmDel bool
	pendingDel *models.Task
}

func Run(ctx context.Context, svc *diary.Service, cfg config.Config, user string) error {
	m, err := New(ctx, svc, cfg, user)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// New loads today's tasks, the category list and the theme flag for user.
func New(ctx context.Context, svc *diary.Service, cfg config.Config, user string) (Model, error) {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		ctx:    ctx,
		svc:    svc,
		cfg:    cfg,
		user:   user,
		now:    time.Now,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyName(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.date = models.DateOf(m.now())

	var err error
	if m.dark, err = svc.Theme(ctx, user); err != nil {
		return m, err
	}
	if err := m.loadCategories(); err != nil {
		return m, err
	}
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(key, msg)
	case modeCategory:
		return m.updateCategoryMode(key, msg)
	case modeSearch:
		return m.updateSearchMode(key, msg)
	}
	return m.updateListMode(key)
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Task cannot be empty"
			return m, nil
		}
		id, err := m.svc.AddTask(m.ctx, m.user, m.date, text, m.newTaskCategory(), m.cfg.Priority())
		if err != nil {
			m.status = describe("save failed", err)
			return m, nil
		}
		m = m.leaveInput()
		if err := m.loadCategories(); err != nil {
			m.status = describe("reload failed", err)
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.status = describe("reload failed", err)
			return m, nil
		}
		m.selectID(id)
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateCategoryMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m = m.leaveInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		t, ok := m.selected()
		if !ok {
			m = m.leaveInput()
			return m, nil
		}
		if err := m.svc.ChangeCategory(m.ctx, m.user, t.ID, m.input.Value()); err != nil {
			m.status = describe("category change failed", err)
			return m, nil
		}
		m = m.leaveInput()
		if err := m.loadCategories(); err != nil {
			m.status = describe("reload failed", err)
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.status = describe("reload failed", err)
			return m, nil
		}
		m.selectID(t.ID)
		m.status = "Category changed"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// updateSearchMode filters as the user types. Cancel clears the search.
func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.search = ""
		m = m.leaveInput()
		m.status = "Search cleared"
	case m.cfg.Keys.Confirm:
		m = m.leaveInput()
		m.status = ""
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.search = m.input.Value()
		if err := m.reload(); err != nil {
			m.status = describe("reload failed", err)
		}
		return m, cmd
	}
	if err := m.reload(); err != nil {
		m.status = describe("reload failed", err)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case k.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case k.Add:
		m.mode = modeAdd
		m.input.Placeholder = "Task"
		m.input.Focus()
		m.status = "Add mode: type a task and press Enter"
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, err := m.svc.Toggle(m.ctx, m.user, t.ID); err != nil {
			m.status = describe("toggle failed", err)
			return m, nil
		}
		return m.refresh(t.ID, "Toggled task")
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case k.PriorityUp, k.PriorityDown:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		p := t.Priority.Next()
		if key == k.PriorityDown {
			p = t.Priority.Prev()
		}
		if p == t.Priority {
			return m, nil
		}
		if err := m.svc.ChangePriority(m.ctx, m.user, t.ID, p); err != nil {
			m.status = describe("priority change failed", err)
			return m, nil
		}
		return m.refresh(t.ID, "Priority set to "+string(p))
	case k.Category:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeCategory
		m.input.Placeholder = "Category"
		m.input.SetValue(t.Category)
		m.input.Focus()
		m.status = "Category: type a name and press Enter"
	case k.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search"
		m.input.SetValue(m.search)
		m.input.Focus()
		m.status = "Search: Enter to keep, Esc to clear"
	case k.FilterCategory:
		if err := m.loadCategories(); err != nil {
			m.status = describe("reload failed", err)
			return m, nil
		}
		m.catIndex = wrapIndex(m.catIndex+1, len(m.categories))
		return m.refresh(0, "Category filter: "+m.categories[m.catIndex])
	case k.FilterPriority:
		m.prioIndex = wrapIndex(m.prioIndex+1, len(priorityChoices()))
		return m.refresh(0, "Priority filter: "+priorityChoices()[m.prioIndex])
	case k.PrevDay:
		m.date = m.date.AddDate(0, 0, -1)
		return m.refresh(0, "")
	case k.NextDay:
		m.date = m.date.AddDate(0, 0, 1)
		return m.refresh(0, "")
	case k.Today:
		m.date = models.DateOf(m.now())
		return m.refresh(0, "")
	case k.ClearDone:
		n, err := m.svc.ClearDone(m.ctx, m.user, m.date)
		if err != nil {
			m.status = describe("clear failed", err)
			return m, nil
		}
		return m.refresh(0, fmt.Sprintf("Removed %d done task(s)", n))
	case k.AllDone:
		n, err := m.svc.CompleteAll(m.ctx, m.user, m.date)
		if err != nil {
			m.status = describe("update failed", err)
			return m, nil
		}
		return m.refresh(0, fmt.Sprintf("Marked %d task(s) done", n))
	case k.Theme:
		dark, err := m.svc.ToggleTheme(m.ctx, m.user)
		if err != nil {
			m.status = describe("theme change failed", err)
			return m, nil
		}
		m.dark = dark
		m.status = "Theme: " + themeName(dark)
	case k.Stats:
		st, err := m.svc.Stats(m.ctx, m.user)
		if err != nil {
			m.status = describe("stats failed", err)
			return m, nil
		}
		m.status = formatStats(st)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		pending := m.pendingDel
		m.confirmDel = false
		m.pendingDel = nil
		if pending == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		if err := m.svc.Delete(m.ctx, m.user, pending.ID); err != nil {
			m.status = describe("delete failed", err)
			return m, nil
		}
		return m.refresh(0, "Deleted task")
	default:
		return m, nil
	}
}

// refresh reloads the day, keeps the cursor on id when it is still listed
// and sets status.
func (m Model) refresh(id int64, status string) (tea.Model, tea.Cmd) {
	if err := m.reload(); err != nil {
		m.status = describe("reload failed", err)
		return m, nil
	}
	if id != 0 {
		m.selectID(id)
	}
	m.status = status
	return m, nil
}

func (m *Model) reload() error {
	tasks, err := m.svc.Day(m.ctx, m.user, m.date, m.criteria())
	if err != nil {
		return err
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	return nil
}

func (m *Model) loadCategories() error {
	cats, err := m.svc.Categories(m.ctx, m.user)
	if err != nil {
		return err
	}
	current := ""
	if m.catIndex < len(m.categories) {
		current = m.categories[m.catIndex]
	}
	m.categories = cats
	m.catIndex = 0
	for i, c := range cats {
		if c == current {
			m.catIndex = i
		}
	}
	return nil
}

func (m Model) criteria() filter.Criteria {
	category := models.AllCategories
	if m.catIndex < len(m.categories) {
		category = m.categories[m.catIndex]
	}
	return filter.FromSelection(m.search, category, priorityChoices()[m.prioIndex])
}

// newTaskCategory files new tasks under the filtered category so they stay visible.
func (m Model) newTaskCategory() string {
	if c := m.criteria().Category; c != nil {
		return *c
	}
	return ""
}

func (m Model) selected() (models.Task, bool) {
	if len(m.tasks) == 0 {
		return models.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m *Model) selectID(id int64) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) leaveInput() Model {
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func priorityChoices() []string {
	choices := []string{models.AllPriorities}
	for _, p := range models.Priorities() {
		choices = append(choices, string(p))
	}
	return choices
}

func describe(what string, err error) string {
	if errors.Is(err, errs.ErrValidation) {
		return "invalid input: " + err.Error()
	}
	return fmt.Sprintf("%s: %v", what, err)
}

func formatStats(st models.Stats) string {
	pct := 0
	if st.Total > 0 {
		pct = st.Done * 100 / st.Total
	}
	return fmt.Sprintf("%d task(s), %d done (%d%%)", st.Total, st.Done, pct)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
