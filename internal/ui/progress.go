package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"boreal/internal/sim"
)

type cycleModel struct {
	title   string
	events  <-chan sim.Event
	spinner spinner.Model
	heap    progress.Model

	cycle    int
	cycles   int
	phase    string
	pause    bool
	heapUsed uint64
	heapCap  uint64
	history  []string
	width    int
	done     bool
}

type eventMsg sim.Event
type doneMsg struct{}

// NewCycleModel returns a Bubble Tea model that renders live collection
// progress: the current cycle and phase, plus a heap occupancy bar.
func NewCycleModel(title string, events <-chan sim.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	heap := progress.New(progress.WithDefaultGradient())
	heap.Width = 76 // Default width

	return &cycleModel{
		title:   title,
		events:  events,
		spinner: sp,
		heap:    heap,
		width:   80,
	}
}

func (m *cycleModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *cycleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(sim.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.heap.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		heapModel, cmd := m.heap.Update(msg)
		m.heap = heapModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *cycleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.cycles > 0 {
		header = fmt.Sprintf("%s — cycle %d/%d", header, m.cycle, m.cycles)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if m.phase != "" && !m.done {
		label := m.phase
		if m.pause {
			label = pauseStyle.Render(label + " (pause)")
		} else {
			label = concStyle.Render(label)
		}
		b.WriteString("  phase: ")
		b.WriteString(label)
		b.WriteString("\n")
	}

	for _, line := range m.history {
		b.WriteString("  ")
		b.WriteString(truncate(line, m.width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  heap %s / %s\n", formatBytes(m.heapUsed), formatBytes(m.heapCap)))
	if m.done {
		b.WriteString(m.heap.ViewAs(m.occupancy()))
	} else {
		b.WriteString(m.heap.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *cycleModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *cycleModel) applyEvent(ev sim.Event) tea.Cmd {
	m.cycle = ev.Cycle
	m.cycles = ev.Cycles
	m.heapUsed = ev.HeapUsed
	m.heapCap = ev.HeapCap
	if ev.Phase != "" {
		m.phase = ev.Phase
		m.pause = ev.Pause
	}
	if ev.CycleDone {
		m.phase = ""
		m.history = append(m.history, fmt.Sprintf("cycle %d complete, heap at %s", ev.Cycle, formatBytes(ev.HeapUsed)))
	}
	if ev.Done {
		m.done = true
	}
	return m.heap.SetPercent(m.occupancy())
}

func (m *cycleModel) occupancy() float64 {
	if m.heapCap == 0 {
		return 0
	}
	return float64(m.heapUsed) / float64(m.heapCap)
}

var (
	pauseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	concStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func formatBytes(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
