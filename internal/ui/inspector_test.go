package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/native/sim"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T) *InspectorModel {
	t.Helper()
	m := NewInspectorModel(3)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	require.True(t, m.ready)
	return m
}

func TestInspectorModel(t *testing.T) {
	t.Run("initializing until sized", func(t *testing.T) {
		m := NewInspectorModel(0)
		assert.Contains(t, m.View(), "Initializing")
		assert.Equal(t, 1000, m.maxEntries)
	})

	t.Run("logs events and keeps the newest", func(t *testing.T) {
		m := sized(t)
		for i := 0; i < 5; i++ {
			m.Update(EventMsg{Time: time.Now(), Category: "key", Detail: string(rune('a' + i))})
		}
		m.Update(EventMsg{Time: time.Now(), Category: "scroll", Detail: "+0.0 -1.0"})

		entries := m.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "d", entries[0].Detail)
		assert.Equal(t, "scroll", entries[2].Category)
		assert.Equal(t, map[string]int{"key": 5, "scroll": 1}, m.Counts())

		view := m.View()
		assert.Contains(t, view, "key 5")
		assert.Contains(t, view, "3 events")
	})

	t.Run("pause keeps counting but stops logging", func(t *testing.T) {
		m := sized(t)
		m.Update(runes("p"))
		m.Update(EventMsg{Category: "key"})
		m.Update(EventMsg{Category: "key"})
		assert.Empty(t, m.Entries())
		assert.Equal(t, 2, m.Counts()["key"])
		assert.Contains(t, m.View(), "paused (2 skipped)")

		m.Update(tea.KeyMsg{Type: tea.KeySpace})
		m.Update(EventMsg{Category: "key"})
		assert.Len(t, m.Entries(), 1)
	})

	t.Run("clear", func(t *testing.T) {
		m := sized(t)
		m.Update(EventMsg{Category: "drop", Detail: "/tmp/x"})
		m.Update(runes("c"))
		assert.Empty(t, m.Entries())
		assert.Empty(t, m.Counts())
		assert.Contains(t, m.View(), "waiting for events")
	})

	t.Run("quit", func(t *testing.T) {
		m := sized(t)
		_, cmd := m.Update(runes("q"))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("window header", func(t *testing.T) {
		m := sized(t)
		m.Update(WindowInfoMsg{Title: "demo", Width: 640, Height: 480, Focused: true})
		view := m.View()
		assert.Contains(t, view, "demo")
		assert.Contains(t, view, "640x480")

		m.Update(WindowClosedMsg{})
		assert.Contains(t, m.View(), "closed")
	})
}

type collector struct {
	msgs []tea.Msg
}

func (c *collector) Send(msg tea.Msg) { c.msgs = append(c.msgs, msg) }

func (c *collector) events() []EventMsg {
	var out []EventMsg
	for _, m := range c.msgs {
		if e, ok := m.(EventMsg); ok {
			out = append(out, e)
		}
	}
	return out
}

func TestFeed(t *testing.T) {
	s := sim.New()
	rt := glfw.New(s)
	require.NoError(t, rt.Init())
	t.Cleanup(func() { _ = rt.Close() })

	opts := glfw.DefaultWindowOptions()
	opts.Title = "inspected"
	w, err := rt.CreateWindow(opts)
	require.NoError(t, err)

	out := &collector{}
	feed := NewFeed(rt, w, out)

	require.NotEmpty(t, out.msgs)
	info, ok := out.msgs[0].(WindowInfoMsg)
	require.True(t, ok)
	assert.Equal(t, "inspected", info.Title)
	assert.Equal(t, 800, info.Width)

	h := w.Handle()
	s.PostKey(h, int32(input.KeyEscape), 9, int32(input.Press), int32(input.ModControl))
	s.PostDrop(h, "/a", "/b")
	require.NoError(t, rt.PollEvents())

	events := out.events()
	require.Len(t, events, 2)
	assert.Equal(t, "key", events[0].Category)
	assert.True(t, strings.HasPrefix(events[0].Detail, "press "), events[0].Detail)
	assert.Contains(t, events[0].Detail, "escape")
	assert.Equal(t, "drop", events[1].Category)
	assert.Equal(t, "/a, /b", events[1].Detail)

	require.NoError(t, w.Destroy())
	assert.IsType(t, WindowClosedMsg{}, out.msgs[len(out.msgs)-1])

	feed.Stop()
	before := len(out.msgs)
	s.ConnectMonitor(sim.MonitorSpec{Name: "LATE"})
	require.NoError(t, rt.PollEvents())
	assert.Len(t, out.msgs, before)
}
