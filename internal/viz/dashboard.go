package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	frameInterval = time.Second / 30
	recentWindow  = 60
)

type TickMsg time.Time

// ResetFunc rebuilds the scenario in place.
type ResetFunc func(sys *sim.BodySystem) error

// Dashboard ticks a BodySystem once per frame and shows its statistics.
type Dashboard struct {
	sys        *sim.BodySystem
	reset      ResetFunc
	title      string
	running    bool
	showComets bool
	history    *History
	summary    sim.Summary
	lastErr    error
	notice     string
}

func NewDashboard(sys *sim.BodySystem, title string, showComets bool, reset ResetFunc) Dashboard {
	return Dashboard{
		sys:        sys,
		reset:      reset,
		title:      title,
		running:    true,
		showComets: showComets,
		history:    NewHistory(historyCapacity),
		summary:    sys.Summary(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Dashboard) Init() tea.Cmd {
	return tick()
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p", " ":
		m.running = !m.running
	case "+", "=":
		m.scaleDt(2)
	case "-", "_":
		m.scaleDt(0.5)
	case "c":
		m.sys.SetCollisionsEnabled(!m.sys.CollisionsEnabled())
	case "v":
		m.showComets = !m.showComets
	case "r":
		if m.reset != nil {
			m.lastErr = m.reset(m.sys)
			m.history.Reset()
			m.summary = m.sys.Summary()
		}
	}
	return m, nil
}

func (m *Dashboard) scaleDt(factor float64) {
	dt := m.sys.DeltaTime() * factor
	if m.sys.SetDeltaTime(dt) {
		m.notice = ""
	} else {
		m.notice = fmt.Sprintf("dt %.3g out of range", dt)
	}
	m.summary.DeltaTime = m.sys.DeltaTime()
}

func (m *Dashboard) step() {
	if err := m.sys.UpdatePositions(); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.summary = m.sys.Summary()
	m.history.OnTick(m.summary)
}

func (m Dashboard) View() string {
	s := m.summary

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	collisions := "on"
	if !m.sys.CollisionsEnabled() {
		collisions = "off"
	}

	population := s.Transients
	if !m.showComets {
		population -= s.Comets
	}

	var stats strings.Builder
	stats.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	stats.WriteString(status + "\n\n")
	row := func(label, value string) {
		stats.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", s.Frame))
	row("dt", fmt.Sprintf("%.3g", s.DeltaTime))
	row("Anchors", fmt.Sprintf("%d", len(s.Anchors)))
	row("Bodies", fmt.Sprintf("%d", population))
	row("Comets", fmt.Sprintf("%d (shown: %v)", s.Comets, m.showComets))
	row("Collisions", collisions)
	row("Merges", fmt.Sprintf("%d + %d anchor", s.Stats.Merges, s.Stats.AnchorMerges))
	row("Tick", s.Stats.LastTick.Round(time.Microsecond).String())
	row("Avg tick", s.Stats.AvgTick().Round(time.Microsecond).String())
	if m.lastErr != nil {
		stats.WriteString("\n" + StatusError.Render(m.lastErr.Error()) + "\n")
	}
	if m.notice != "" {
		stats.WriteString("\n" + StatusPaused.Render(m.notice) + "\n")
	}

	var charts strings.Builder
	if c := chart(m.history.Population, "Population", 6, 50); c != "" {
		charts.WriteString(graphStyle.Render(c) + "\n")
	}
	charts.WriteString("Merges   " + Sparkline(m.history.Merges, 40) + "\n")
	charts.WriteString("Tick ms  " + Sparkline(m.history.TickMillis, 40) + "\n")

	var recent strings.Builder
	for _, c := range tail(m.sys.Collisions(recentWindow), 5) {
		recent.WriteString(fmt.Sprintf("f%-6d %-9s #%d -> #%d\n", c.Frame, c.LoserKind, c.LoserID, c.WinnerID))
	}
	if recent.Len() == 0 {
		recent.WriteString(Subtle.Render("none") + "\n")
	}

	left := Panel("STATISTICS", stats.String())
	right := lipgloss.JoinVertical(lipgloss.Left,
		Panel("HISTORY", charts.String()),
		Panel("PARTITIONS", PartitionLoad(m.sys.PartitionSizes(), 20)),
		Panel("RECENT COLLISIONS", recent.String()),
	)
	help := KeyHint.Render("q:Quit p:Pause +/-:dt c:Collisions v:Comets r:Reset")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + help
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// RunDashboard blocks until the user quits.
func RunDashboard(d Dashboard) error {
	_, err := tea.NewProgram(d, tea.WithAltScreen()).Run()
	return err
}
