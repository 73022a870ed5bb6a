// Package calendarui provides the Bubble Tea training calendar.
package calendarui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pacer/internal/activity"
	"github.com/verte-zerg/pacer/internal/coach"
	"github.com/verte-zerg/pacer/internal/model"
	"github.com/verte-zerg/pacer/internal/report"
)

const (
	tabSchedule = iota
	tabPaces
	tabProgress
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	dayStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	todayStyle     = dayStyle.BorderForeground(lipgloss.Color("#C89A3A"))
	dayTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pastStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	missedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4380D"))
	paceValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Source produces a fresh calendar view for a moment in time.
type Source interface {
	View(ctx context.Context, now time.Time) (coach.View, error)
}

// Model implements the Bubble Tea calendar UI.
type Model struct {
	source Source
	now    func() time.Time

	view   coach.View
	errMsg string

	tabs      []string
	activeTab int
	week      int
	viewports []viewport.Model
	paceTable table.Model

	width  int
	height int
}

// NewModel constructs a calendar model and loads the first view.
func NewModel(source Source, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	m := &Model{
		source: source,
		now:    now,
		tabs:   []string{"Schedule", "Paces", "Progress"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.paceTable = buildPaceTable(nil, 0, 1)
	m.reload()
	m.week = m.currentWeek()
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "n":
			m.moveWeek(1)
			return m, nil
		case "p":
			m.moveWeek(-1)
			return m, nil
		case "t":
			m.week = m.currentWeek()
			m.renderTabContents()
			return m, nil
		case "r":
			m.reload()
			m.renderTabContents()
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			if m.activeTab == tabPaces {
				var cmd tea.Cmd
				m.paceTable, cmd = m.paceTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Week returns the index of the displayed weekly block.
func (m *Model) Week() int {
	return m.week
}

// ActiveTab returns the index of the selected tab.
func (m *Model) ActiveTab() int {
	return m.activeTab
}

func (m *Model) reload() {
	view, err := m.source.View(context.Background(), m.now())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.view = view
	m.paceTable.SetRows(paceRows(view.Derived.Paces))
	if m.week >= len(view.Blocks) {
		m.week = maxInt(0, len(view.Blocks)-1)
	}
}

// currentWeek is the block holding today, or the nearest end of the plan.
func (m *Model) currentWeek() int {
	blocks := m.view.Blocks
	if len(blocks) == 0 {
		return 0
	}
	for i, b := range blocks {
		for _, d := range b.Days {
			if d.IsToday {
				return i
			}
		}
	}
	first := blocks[0].Days[0]
	if !first.IsPast {
		return 0
	}
	return len(blocks) - 1
}

func (m *Model) moveWeek(delta int) {
	count := len(m.view.Blocks)
	if count == 0 {
		return
	}
	m.week = maxInt(0, minInt(count-1, m.week+delta))
	m.renderTabContents()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabPaces {
		m.paceTable.Focus()
	} else {
		m.paceTable.Blur()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.paceTable.SetWidth(m.width)
	m.paceTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	name := m.view.Plan.Name
	if name == "" {
		name = "none"
	}
	summary := fmt.Sprintf("Plan: %s  Index: %d (%s)  Start: %s  Week: %d/%d",
		name,
		m.view.Derived.Index,
		m.view.Derived.Label,
		m.view.Start.Format("2006-01-02"),
		m.week+1,
		len(m.view.Blocks),
	)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Week: n/p  Today: t  Reload: r  Scroll: up/down  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabPaces {
		return m.paceTable.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabSchedule].SetContent(renderWeek(m.view, m.week, width))
	m.viewports[tabProgress].SetContent(renderProgress(m.view, width))
}

func renderWeek(view coach.View, week, width int) string {
	if len(view.Blocks) == 0 {
		return "Plan has no days."
	}
	block := view.Blocks[week]
	cards := make([]string, 0, len(block.Days))
	for _, d := range block.Days {
		cards = append(cards, renderDay(view, d, width))
	}
	title := dayTitleStyle.Render(fmt.Sprintf("Week %d of %d, from %s", week+1, len(view.Blocks), block.WeekStart))
	return title + "\n" + strings.Join(cards, "\n")
}

func renderDay(view coach.View, d model.DayView, width int) string {
	status := ""
	switch {
	case view.Completed(d.Index):
		status = doneStyle.Render("done")
	case d.IsPast && hasTraining(d):
		status = missedStyle.Render("missed")
	}
	heading := fmt.Sprintf("%s %s  day %d", d.Time.Format("Mon"), d.Date, d.Index+1)
	if d.IsToday {
		heading += "  (today)"
	}
	lines := []string{dayTitleStyle.Render(heading) + "  " + status}
	if d.Note != "" {
		lines = append(lines, headerStyle.Render(d.Note))
	}
	if len(d.Activities) == 0 {
		lines = append(lines, pastStyle.Render(model.ActivityRest))
	}
	for _, act := range d.Activities {
		lines = append(lines, activityLine(view, act))
		for _, seg := range view.SeriesPaces(act) {
			lines = append(lines, "  "+seriesLine(seg))
		}
	}
	for _, l := range view.DayMatches(d.Index) {
		lines = append(lines, pastStyle.Render(fmt.Sprintf("logged: %s %.2f km %s", l.Title, l.Distance, l.Pace)))
	}
	content := strings.Join(lines, "\n")
	if d.IsPast && !d.IsToday {
		content = pastStyle.Render(content)
	}
	style := dayStyle
	if d.IsToday {
		style = todayStyle
	}
	return style.Width(maxInt(20, width-2)).Render(content)
}

func activityLine(view coach.View, act model.ScheduledActivity) string {
	parts := []string{act.Type}
	if dist := report.FormatDistance(act); dist != "" {
		parts = append(parts, dist)
	}
	line := strings.Join(parts, " ")
	if act.Type != model.ActivityRest {
		line += " @ " + paceValueStyle.Render(view.ActivityPace(act))
	}
	if act.Note != "" {
		line += "  " + headerStyle.Render(act.Note)
	}
	return line
}

func seriesLine(seg activity.SegmentPace) string {
	line := fmt.Sprintf("%dx %s", seg.Sets, seg.Work)
	if seg.Rest != "" {
		line += " / " + seg.Rest + " rest"
	}
	return line + " @ " + paceValueStyle.Render(seg.Pace)
}

func hasTraining(d model.DayView) bool {
	for _, act := range d.Activities {
		if act.Type != model.ActivityRest {
			return true
		}
	}
	return false
}

func renderProgress(view coach.View, width int) string {
	var buf bytes.Buffer
	if err := report.RenderProgress(&buf, view.Progress, width, true); err != nil {
		return fmt.Sprintf("Failed to render progress: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func paceRows(paces []model.PaceSetting) []table.Row {
	rows := make([]table.Row, 0, len(paces))
	for _, p := range paces {
		custom := ""
		if p.IsCustom {
			custom = "custom"
		}
		rows = append(rows, table.Row{p.Name, p.Value, p.Default, custom, p.Description})
	}
	return rows
}

func buildPaceTable(paces []model.PaceSetting, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Pace", Width: 16},
		{Title: "Value", Width: 7},
		{Title: "Default", Width: 8},
		{Title: "", Width: 7},
		{Title: "Use", Width: 40},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(paceRows(paces)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(paceTableStyles())
	return t
}

func paceTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
