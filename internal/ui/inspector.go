package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// EventMsg reports one dispatched window or runtime event.
type EventMsg struct {
	Time     time.Time
	Category string
	Detail   string
}

// WindowInfoMsg updates the window summary shown in the header.
type WindowInfoMsg struct {
	Title         string
	Width, Height int
	Focused       bool
}

// WindowClosedMsg is sent once the inspected window is gone.
type WindowClosedMsg struct{}

type inspectorKeys struct {
	Quit   key.Binding
	Pause  key.Binding
	Clear  key.Binding
	Top    key.Binding
	Bottom key.Binding
}

func (k inspectorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Clear, k.Top, k.Bottom}
}

func (k inspectorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultInspectorKeys() inspectorKeys {
	return inspectorKeys{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Pause:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

// InspectorModel is a live log of window events with per-category counters.
type InspectorModel struct {
	keys inspectorKeys
	help help.Model

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	window  WindowInfoMsg
	closed  bool
	paused  bool
	dropped int

	entries    []EventMsg
	maxEntries int
	counts     map[string]int
}

// NewInspectorModel creates an inspector keeping at most maxEntries lines.
func NewInspectorModel(maxEntries int) *InspectorModel {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &InspectorModel{
		keys:       defaultInspectorKeys(),
		help:       help.New(),
		maxEntries: maxEntries,
		counts:     make(map[string]int),
	}
}

func (m *InspectorModel) Init() tea.Cmd {
	return nil
}

func (m *InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-m.chromeHeight(), 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		m.help.Width = msg.Width
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.entries = m.entries[:0]
			m.counts = make(map[string]int)
			m.dropped = 0
			m.refresh()
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		}

	case EventMsg:
		m.counts[msg.Category]++
		if m.paused {
			m.dropped++
			break
		}
		m.entries = append(m.entries, msg)
		if len(m.entries) > m.maxEntries {
			m.entries = m.entries[len(m.entries)-m.maxEntries:]
		}
		m.refresh()

	case WindowInfoMsg:
		m.window = msg

	case WindowClosedMsg:
		m.closed = true
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// header, counters and status bar
func (m *InspectorModel) chromeHeight() int {
	return 4
}

func (m *InspectorModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

func (m *InspectorModel) renderEntries() string {
	if len(m.entries) == 0 {
		return SubtleStyle.Render("  waiting for events...")
	}
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(SubtleStyle.Render(e.Time.Format("15:04:05.000")))
		b.WriteByte(' ')
		b.WriteString(CategoryStyle(e.Category).Render(e.Category))
		b.WriteString(TextStyle.Render(e.Detail))
	}
	return b.String()
}

func (m *InspectorModel) renderHeader() string {
	title := m.window.Title
	if title == "" {
		title = "window"
	}
	state := FormatStatus(!m.closed && m.window.Focused, "focused")
	if m.closed {
		state = FormatStatus(false, "closed")
	}
	size := fmt.Sprintf("%dx%d", m.window.Width, m.window.Height)
	return TitleStyle.Render(title) + " " + SubtleStyle.Render(size) + "  " + state
}

func (m *InspectorModel) renderCounts() string {
	if len(m.counts) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.counts))
	for name := range m.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %d", name, m.counts[name])
	}
	return SubtleStyle.Render(strings.Join(parts, " · "))
}

func (m *InspectorModel) renderStatus() string {
	status := fmt.Sprintf("%d events", len(m.entries))
	if m.paused {
		status += WarningStyle.Render(fmt.Sprintf("  paused (%d skipped)", m.dropped))
	}
	return StatusBarStyle.Render(status) + "  " + m.help.View(m.keys)
}

func (m *InspectorModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderCounts())
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

// Counts returns how many events of each category were seen, paused or not.
func (m *InspectorModel) Counts() map[string]int {
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Entries returns the logged events, oldest first.
func (m *InspectorModel) Entries() []EventMsg {
	return append([]EventMsg(nil), m.entries...)
}
