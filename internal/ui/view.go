package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"diary/internal/config"
	"diary/internal/label"
	"diary/internal/models"
)

type styles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	pending  lipgloss.Style
	filter   lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
	priority map[models.Priority]lipgloss.Style
}

func themeStyles(dark bool) styles {
	fg, muted, accent := lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("25")
	if dark {
		fg, muted, accent = lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("117")
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:    lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		pending: lipgloss.NewStyle().Foreground(fg),
		filter:  lipgloss.NewStyle().Italic(true).Foreground(muted),
		status:  lipgloss.NewStyle().Foreground(fg),
		help:    lipgloss.NewStyle().Foreground(muted),
		priority: map[models.Priority]lipgloss.Style{
			models.Low:    lipgloss.NewStyle().Foreground(fg),
			models.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			models.High:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		},
	}
}

func (m Model) View() string {
	st := themeStyles(m.dark)
	var b strings.Builder

	b.WriteString(st.title.Render(fmt.Sprintf("Diary · %s · %s %s", m.user, models.FormatDate(m.date), m.date.Weekday())))
	b.WriteString("\n")
	if f := m.filterLine(); f != "" {
		b.WriteString(st.filter.Render(f))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(fmt.Sprintf("No tasks for this day. Press '%s' to add one.", m.cfg.Keys.Add))
	} else {
		b.WriteString(m.renderTaskList(st))
	}

	b.WriteString("\n---\n")
	if m.mode != modeList {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(st.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(st.help.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderTaskList(st styles) string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := "  "
		if m.cursor == i && m.mode == modeList {
			cursor = st.cursor.Render("> ")
		}
		style := st.pending
		if t.Done {
			style = st.done
		} else if ps, ok := st.priority[t.Priority]; ok {
			style = ps
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(label.EncodeTask(t)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) filterLine() string {
	c := m.criteria()
	if !c.Active() {
		return ""
	}
	var parts []string
	if c.Category != nil {
		parts = append(parts, "category: "+*c.Category)
	}
	if c.Priority != nil {
		parts = append(parts, "priority: "+string(*c.Priority))
	}
	if strings.TrimSpace(c.Search) != "" {
		parts = append(parts, fmt.Sprintf("search: %q", c.Search))
	}
	return "filter " + strings.Join(parts, " · ")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s/%s priority • %s category • %s search • %s/%s filter • %s/%s/%s day • %s clear done • %s all done • %s theme • %s stats • %s quit",
		k.Up, k.Down, k.Add, keyName(k.Toggle), k.Delete, k.PriorityUp, k.PriorityDown, k.Category, k.Search,
		k.FilterCategory, k.FilterPriority, k.PrevDay, k.NextDay, k.Today, k.ClearDone, k.AllDone, k.Theme, k.Stats, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
