package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"calendo/internal/autostart"
	"calendo/internal/calendar"
	"calendo/internal/config"
	"calendo/internal/planner"
	"calendo/internal/storage"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRepeat
)

type pane int

const (
	paneCalendar pane = iota
	paneTasks
)

// Calendar palette: red for overdue, green for all-done, blue for today.
var (
	styleToday   = lipgloss.NewStyle().Background(lipgloss.Color("#1976d2")).Foreground(lipgloss.Color("#ffffff")).Bold(true)
	styleOverdue = lipgloss.NewStyle().Background(lipgloss.Color("#d32f2f")).Foreground(lipgloss.Color("#ffffff"))
	styleDone    = lipgloss.NewStyle().Background(lipgloss.Color("#388e3c")).Foreground(lipgloss.Color("#ffffff"))
	styleSunday  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f"))
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleFaint   = lipgloss.NewStyle().Faint(true)
)

// listItem is one row of the combined task pane: active tasks first, then
// completed ones.
type listItem struct {
	task      storage.Task
	completed bool
}

// Recurrence form fields, cycled with tab/enter.
const (
	fieldText = iota
	fieldStart
	fieldEnd
	fieldDays
	fieldCount
)

type repeatState struct {
	text  string
	start string
	end   string
	days  [7]bool // Monday-first
	index int
}

type Model struct {
	pl  *planner.Planner
	cfg config.Config

	day        planner.Day
	highlights map[string]planner.Highlight
	visYear    int
	visMonth   time.Month

	focus      pane
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *listItem
	repeat     *repeatState
	loadErr    error
}

func Run(pl *planner.Planner, cfg config.Config, firstLaunch bool) error {
	ti := textinput.New()
	ti.Placeholder = "Enter your task..."
	ti.CharLimit = 256
	ti.Width = 40

	today := pl.Today()
	m := Model{
		pl:       pl,
		cfg:      cfg,
		visYear:  today.Year(),
		visMonth: today.Month(),
		input:    ti,
		status:   "Press 'a' to add, 'r' for a repeating task, space to toggle.",
	}
	if firstLaunch {
		m.status = "Welcome! Config written to " + config.ResolveConfigPath()
	}
	m.refresh()
	if m.loadErr != nil {
		return m.loadErr
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

// refresh reloads the selected day and the visible month's highlights.
// Every mutation goes through here afterwards.
func (m *Model) refresh() {
	day, err := m.pl.Day()
	if err != nil {
		m.loadErr = err
		m.status = fmt.Sprintf("load failed: %v", err)
		return
	}
	hl, err := m.pl.Highlights(m.visYear, m.visMonth)
	if err != nil {
		m.loadErr = err
		m.status = fmt.Sprintf("highlight reload failed: %v", err)
		return
	}
	m.day = day
	m.highlights = hl
	m.cursor = clampCursor(m.cursor, len(m.items()))
}

func (m Model) items() []listItem {
	items := make([]listItem, 0, len(m.day.Active)+len(m.day.Completed))
	for _, t := range m.day.Active {
		items = append(items, listItem{task: t})
	}
	for _, t := range m.day.Completed {
		items = append(items, listItem{task: t, completed: true})
	}
	return items
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.repeat != nil {
			return m.updateRepeatMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateBrowseMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateBrowseMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.SwitchPane:
		if m.focus == paneCalendar {
			m.focus = paneTasks
		} else {
			m.focus = paneCalendar
		}
	case m.cfg.Keys.Left, "left":
		if m.focus == paneCalendar {
			m.selectDate(m.pl.Current().AddDate(0, 0, -1))
		}
	case m.cfg.Keys.Right, "right":
		if m.focus == paneCalendar {
			m.selectDate(m.pl.Current().AddDate(0, 0, 1))
		}
	case m.cfg.Keys.Up, "up":
		if m.focus == paneCalendar {
			m.selectDate(m.pl.Current().AddDate(0, 0, -7))
		} else if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.items()))
		}
	case m.cfg.Keys.Down, "down":
		if m.focus == paneCalendar {
			m.selectDate(m.pl.Current().AddDate(0, 0, 7))
		} else {
			m.cursor = clampCursor(m.cursor+1, len(m.items()))
		}
	case m.cfg.Keys.PrevMonth:
		m.selectDate(m.pl.Current().AddDate(0, -1, 0))
	case m.cfg.Keys.NextMonth:
		m.selectDate(m.pl.Current().AddDate(0, 1, 0))
	case m.cfg.Keys.Today:
		m.selectDate(m.pl.Today())
	case m.cfg.Keys.Add:
		if m.day.ReadOnly {
			m.status = "Past date: adding is disabled"
			return m, nil
		}
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "Enter your task..."
		m.input.Focus()
		m.status = "Add mode: type a task and press Enter"
	case m.cfg.Keys.AddRepeat:
		return m.startRepeatForm()
	case m.cfg.Keys.Toggle:
		return m.toggleSelected()
	case m.cfg.Keys.Delete:
		items := m.items()
		if m.focus != paneTasks || len(items) == 0 {
			return m, nil
		}
		it := items[m.cursor]
		m.confirmDel = true
		m.pendingDel = &it
		m.status = fmt.Sprintf("Delete %q? y/n", it.task.Text)
	case m.cfg.Keys.Autostart:
		return m.toggleAutostart()
	}
	return m, nil
}

func (m *Model) selectDate(d time.Time) {
	m.pl.SelectDate(d)
	m.visYear = d.Year()
	m.visMonth = d.Month()
	m.refresh()
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	items := m.items()
	if m.focus != paneTasks || len(items) == 0 {
		return m, nil
	}
	it := items[m.cursor]
	err := m.pl.ToggleComplete(it.task, !it.completed)
	switch {
	case err == planner.ErrPastDate:
		m.status = "Past date: tasks can only be unchecked"
	case err != nil:
		m.status = fmt.Sprintf("toggle failed: %v", err)
	default:
		m.refresh()
		m.status = "Toggled task"
	}
	return m, nil
}

func (m Model) toggleAutostart() (tea.Model, tea.Cmd) {
	if autostart.Enabled() {
		if err := autostart.Disable(); err != nil {
			m.status = fmt.Sprintf("autostart unchanged: %v", err)
			return m, nil
		}
		m.status = "Autostart disabled"
		return m, nil
	}
	if err := autostart.Enable(); err != nil {
		m.status = fmt.Sprintf("autostart unchanged: %v", err)
		return m, nil
	}
	m.status = "Autostart enabled"
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeBrowse
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Task cannot be empty!"
			return m, nil
		}
		if err := m.pl.AddTask(text); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Added task"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeBrowse
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		err := m.pl.Delete(m.pendingDel.task, m.pendingDel.completed)
		switch {
		case err == planner.ErrPastDate:
			m.status = "Past date: deleting is disabled"
		case err != nil:
			m.status = fmt.Sprintf("delete failed: %v", err)
		default:
			m.refresh()
			m.status = "Deleted task"
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startRepeatForm() (tea.Model, tea.Cmd) {
	if m.day.ReadOnly {
		m.status = "Past date: adding is disabled"
		return m, nil
	}
	today := m.pl.Current().Format(storage.DateLayout)
	rs := &repeatState{start: today, end: today}
	for i := range rs.days {
		rs.days[i] = true
	}
	m.repeat = rs
	m.mode = modeRepeat
	m.input.SetValue("")
	m.input.Placeholder = rs.currentLabel()
	m.input.Focus()
	m.status = "Repeating task: Enter to advance, Esc to cancel, 1-7 toggles days"
	return m, nil
}

func (m Model) updateRepeatMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rs := m.repeat
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.repeat = nil
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab":
		rs.setCurrentValue(m.input.Value())
		rs.index = (rs.index + 1) % fieldCount
		m.input.SetValue(rs.currentValue())
		m.input.Placeholder = rs.currentLabel()
		return m, nil
	case "shift+tab":
		rs.setCurrentValue(m.input.Value())
		rs.index = (rs.index + fieldCount - 1) % fieldCount
		m.input.SetValue(rs.currentValue())
		m.input.Placeholder = rs.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		rs.setCurrentValue(m.input.Value())
		if rs.index >= fieldCount-1 {
			return m.saveRepeat()
		}
		rs.index++
		m.input.SetValue(rs.currentValue())
		m.input.Placeholder = rs.currentLabel()
		return m, nil
	default:
		if rs.index == fieldDays {
			if n := strings.IndexAny("1234567", key); n >= 0 && len(key) == 1 {
				rs.days[n] = !rs.days[n]
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveRepeat() (tea.Model, tea.Cmd) {
	rs := m.repeat
	text := strings.TrimSpace(rs.text)
	if text == "" {
		m.status = "Task cannot be empty!"
		rs.index = fieldText
		m.input.SetValue(rs.text)
		m.input.Placeholder = rs.currentLabel()
		return m, nil
	}
	start, err := time.ParseInLocation(storage.DateLayout, strings.TrimSpace(rs.start), time.Local)
	if err != nil {
		m.status = fmt.Sprintf("start date invalid: %v", err)
		return m, nil
	}
	end, err := time.ParseInLocation(storage.DateLayout, strings.TrimSpace(rs.end), time.Local)
	if err != nil {
		m.status = fmt.Sprintf("end date invalid: %v", err)
		return m, nil
	}
	rec := planner.Recurrence{Start: start, End: end, Days: rs.selectedDays()}
	n := len(planner.Expand(text, rec))
	if err := m.pl.AddRecurring(text, rec); err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	m.repeat = nil
	m.mode = modeBrowse
	m.input.Blur()
	m.refresh()
	m.status = fmt.Sprintf("Added %d task(s)", n)
	return m, nil
}

func (rs *repeatState) selectedDays() map[time.Weekday]bool {
	days := map[time.Weekday]bool{}
	for i, on := range rs.days {
		if !on {
			continue
		}
		if d, ok := calendar.ParseDay(calendar.DayNames[i]); ok {
			days[d] = true
		}
	}
	return days
}

func (rs *repeatState) currentLabel() string {
	switch rs.index {
	case fieldText:
		return "task text"
	case fieldStart:
		return "start date (YYYY-MM-DD)"
	case fieldEnd:
		return "end date (YYYY-MM-DD)"
	default:
		return "days (press 1-7 to toggle)"
	}
}

func (rs *repeatState) currentValue() string {
	switch rs.index {
	case fieldText:
		return rs.text
	case fieldStart:
		return rs.start
	case fieldEnd:
		return rs.end
	default:
		return ""
	}
}

func (rs *repeatState) setCurrentValue(v string) {
	switch rs.index {
	case fieldText:
		rs.text = v
	case fieldStart:
		rs.start = v
	case fieldEnd:
		rs.end = v
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render("CalenDo"))
	b.WriteString("\n\n")
	b.WriteString(m.renderCalendar())
	b.WriteString("\n")
	b.WriteString(m.renderTaskPane())
	b.WriteString("\n")

	if m.repeat != nil {
		b.WriteString(m.renderRepeatForm())
		b.WriteString("\n")
	} else if m.mode == modeAdd {
		b.WriteString("Add task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(styleFaint.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	title := fmt.Sprintf("%s %d", m.visMonth, m.visYear)
	b.WriteString(styleHeader.Render(title))
	b.WriteString("\n")
	for i, name := range calendar.DayNames {
		cell := fmt.Sprintf("%3s", name)
		if i == 6 {
			cell = styleSunday.Render(cell)
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	b.WriteString("\n")

	selected := m.pl.Current().Format(storage.DateLayout)
	for _, week := range calendar.Weeks(m.visYear, m.visMonth) {
		for col, d := range week {
			if d.IsZero() {
				b.WriteString("    ")
				continue
			}
			date := d.Format(storage.DateLayout)
			cell := fmt.Sprintf("%3d", d.Day())
			style := lipgloss.NewStyle()
			switch m.highlights[date] {
			case planner.HighlightToday:
				style = styleToday
			case planner.HighlightOverdue:
				style = styleOverdue
			case planner.HighlightDone:
				style = styleDone
			default:
				if col == 6 {
					// Sunday accent, independent of task state
					style = styleSunday
				}
			}
			if date == selected {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(cell))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTaskPane() string {
	items := m.items()
	if len(items) == 0 {
		return "No tasks for " + m.pl.Current().Format(storage.DateLayout) + ". Press 'a' to add one.\n"
	}
	var b strings.Builder
	for i, it := range items {
		cursor := " "
		if m.focus == paneTasks && m.cursor == i && m.mode == modeBrowse {
			cursor = ">"
		}
		checkbox := "[ ]"
		if it.completed {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", cursor, checkbox, it.task.Text)
		switch {
		case it.completed:
			line = styleDone.Render(line)
		case m.day.ReadOnly:
			line = styleOverdue.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRepeatForm() string {
	rs := m.repeat
	var b strings.Builder
	b.WriteString("Repeating task (tab to move, enter to save/next, esc to cancel)\n\n")
	labels := []string{"Task", "Start", "End", "Days"}
	values := []string{rs.text, rs.start, rs.end, rs.renderDays()}
	for i, label := range labels {
		prefix := " "
		if i == rs.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-6s: %s\n", prefix, label, val))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (rs *repeatState) renderDays() string {
	parts := make([]string, 0, 7)
	for i, name := range calendar.DayNames {
		mark := " "
		if rs.days[i] {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s]%s", mark, name))
	}
	return strings.Join(parts, " ")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s/%s/%s move • %s/%s month • %s today • %s pane • %s add • %s repeat • %s toggle • %s delete • %s autostart • %s quit",
		k.Left, k.Down, k.Up, k.Right, k.PrevMonth, k.NextMonth, k.Today, k.SwitchPane,
		k.Add, k.AddRepeat, strings.TrimSpace(keyName(k.Toggle)), k.Delete, k.Autostart, k.Quit)
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
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
