package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vibeshield/internal/progress"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const (
	maxLogLines = 12
	maxHotFiles = 8
	barWidth    = 30
)

type eventLine struct {
	Severity string
	Text     string
}

type eventMsg struct {
	event progress.Event
	ok    bool
}

type uiModel struct {
	events <-chan progress.Event

	root       string
	status     string
	scanError  string
	startedAt  time.Time
	finishedAt time.Time

	totalFiles   int
	scannedFiles int
	skipped      int
	issues       int
	warnings     int

	// fileIssues counts issues per file that had at least one.
	fileIssues map[string]int

	showDetails  bool
	warningsOnly bool
	done         bool
	noColor      bool

	logLines []eventLine
	tick     int
}

func newModel(events <-chan progress.Event) uiModel {
	return uiModel{
		events:      events,
		status:      "running",
		fileIssues:  make(map[string]int),
		showDetails: true,
		noColor:     noColorEnabled(),
		logLines:    make([]eventLine, 0, maxLogLines),
	}
}

func noColorEnabled() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func waitForEvent(ch <-chan progress.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{event: ev, ok: ok}
	}
}

type tickMsg time.Time

func nextTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), nextTick())
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			m.showDetails = !m.showDetails
		case "w":
			m.warningsOnly = !m.warningsOnly
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.done {
				return m, tea.Quit
			}
		}
		return m, nil
	case eventMsg:
		if !msg.ok {
			m.done = true
			return m, nil
		}
		m.applyEvent(msg.event)
		if m.done {
			return m, nil
		}
		return m, waitForEvent(m.events)
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, nextTick()
	default:
		return m, nil
	}
}

func (m uiModel) render(s lipgloss.Style, text string) string {
	if m.noColor {
		return text
	}
	return s.Render(text)
}

func (m uiModel) View() string {
	var b strings.Builder

	b.WriteString(m.render(titleStyle, "vibeshield scan"))
	b.WriteString("\n")
	if m.status == "running" {
		b.WriteString(fmt.Sprintf("Active: %s\n", m.render(runningStyle, m.runningFrame())))
	}
	b.WriteString(fmt.Sprintf("Root: %s\n", valueOrDash(m.root)))
	b.WriteString(fmt.Sprintf("Status: %s\n", m.render(styleStatus(m.status), strings.ToUpper(valueOrDash(m.status)))))
	b.WriteString(fmt.Sprintf("Files: %s %d/%d (skipped %d)\n", progressBar(m.scannedFiles, m.totalFiles, barWidth), m.scannedFiles, m.totalFiles, m.skipped))
	b.WriteString(fmt.Sprintf("Issues: %d\n", m.issues))
	if m.warnings > 0 {
		b.WriteString(m.render(warnStyle, fmt.Sprintf("Warnings: %d", m.warnings)))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Elapsed: %s\n", m.elapsedString()))
	if m.scanError != "" {
		b.WriteString(m.render(errorStyle, "Error: "+m.scanError))
		b.WriteString("\n")
	}

	hot := m.hotFiles()
	if len(hot) > 0 {
		b.WriteString("\n")
		b.WriteString(m.render(headerStyle, fmt.Sprintf("%-48s %-6s", "File", "Issues")))
		b.WriteString("\n")
		for _, path := range hot {
			b.WriteString(fmt.Sprintf("%-48s %-6d\n", truncate(path, 48), m.fileIssues[path]))
		}
	}

	if m.showDetails {
		b.WriteString("\n")
		b.WriteString(m.render(headerStyle, "Recent Events"))
		b.WriteString("\n")
		lines := m.visibleEventLines()
		if len(lines) == 0 {
			b.WriteString(m.render(idleStyle, "No events yet."))
			b.WriteString("\n")
		}
		for _, line := range lines {
			b.WriteString(m.render(severityStyle(line.Severity), line.Text))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.render(helpStyle, "Press q to close"))
	} else {
		b.WriteString(m.render(helpStyle, "d toggle details  w warnings only  ctrl+c abort"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *uiModel) applyEvent(e progress.Event) {
	switch e.Type {
	case progress.EventScanStarted:
		m.root = e.Root
		m.status = "running"
		if !e.At.IsZero() {
			m.startedAt = e.At
		}
		m.appendEventLine(e, "info", fmt.Sprintf("scanning %s", valueOrDash(e.Root)))
	case progress.EventDiscoveryFinished:
		m.totalFiles = e.FileCount
		m.skipped = e.Skipped
		m.appendEventLine(e, "info", fmt.Sprintf("discovered %d file(s), skipped %d", e.FileCount, e.Skipped))
	case progress.EventFileScanned:
		m.scannedFiles++
		if e.IssueCount > 0 {
			m.issues += e.IssueCount
			m.fileIssues[e.Path] += e.IssueCount
			m.appendEventLine(e, "issue", fmt.Sprintf("%s: %d issue(s)", e.Path, e.IssueCount))
		}
	case progress.EventScanWarning:
		m.warnings++
		m.appendEventLine(e, "warning", "warning: "+firstNonEmpty(e.Message, e.Error))
	case progress.EventScanFinished:
		m.status = firstNonEmpty(e.Status, "success")
		m.scanError = strings.TrimSpace(e.Error)
		m.issues = e.IssueCount
		if e.FileCount > 0 {
			m.scannedFiles = e.FileCount
		}
		if !e.At.IsZero() {
			m.finishedAt = e.At
		}
		m.done = true
		msg := fmt.Sprintf("scan finished status=%s issues=%d duration=%s", m.status, e.IssueCount, durationString(e.DurationMS))
		sev := "info"
		if m.scanError != "" {
			msg += " error=" + m.scanError
			sev = "error"
		}
		m.appendEventLine(e, sev, msg)
	}
}

// hotFiles lists the files with the most issues, ties broken by path.
func (m uiModel) hotFiles() []string {
	out := make([]string, 0, len(m.fileIssues))
	for path := range m.fileIssues {
		out = append(out, path)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := m.fileIssues[out[i]], m.fileIssues[out[j]]
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	if len(out) > maxHotFiles {
		out = out[:maxHotFiles]
	}
	return out
}

func (m uiModel) visibleEventLines() []eventLine {
	if !m.warningsOnly {
		return m.logLines
	}
	var out []eventLine
	for _, line := range m.logLines {
		if line.Severity == "warning" || line.Severity == "error" {
			out = append(out, line)
		}
	}
	return out
}

func (m uiModel) elapsedString() string {
	if m.startedAt.IsZero() {
		return "0s"
	}
	end := time.Now().UTC()
	if !m.finishedAt.IsZero() {
		end = m.finishedAt
	}
	return end.Sub(m.startedAt).Round(time.Millisecond).String()
}

func (m *uiModel) appendEventLine(e progress.Event, severity, text string) {
	ts := e.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	m.logLines = append(m.logLines, eventLine{
		Severity: severity,
		Text:     fmt.Sprintf("[%s] %s", ts.Format("15:04:05"), strings.TrimSpace(text)),
	})
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

func progressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	if done > total {
		done = total
	}
	filled := done * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

func durationString(ms int64) string {
	if ms <= 0 {
		return "0s"
	}
	return (time.Duration(ms) * time.Millisecond).Round(time.Millisecond).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func valueOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func styleStatus(status string) lipgloss.Style {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "clean", "success":
		return okStyle
	case "issues":
		return warnStyle
	case "failed", "canceled":
		return errorStyle
	case "running":
		return runningStyle
	default:
		return idleStyle
	}
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "warning", "issue":
		return warnStyle
	case "error":
		return errorStyle
	default:
		return idleStyle
	}
}

func (m uiModel) runningFrame() string {
	frames := []string{"-", "\\", "|", "/"}
	return frames[m.tick%len(frames)]
}
