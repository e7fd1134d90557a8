package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatControl(t *testing.T) {
	tests := []struct {
		name string
		key  string
		desc string
	}{
		{name: "basic control", key: "q", desc: "Quit"},
		{name: "longer key", key: "Space", desc: "Pause log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatControl(tt.key, tt.desc)
			assert.Contains(t, got, tt.key)
			assert.Contains(t, got, tt.desc)
		})
	}
}

func TestFormatStatus(t *testing.T) {
	assert.Contains(t, FormatStatus(true, "focused"), "●")
	assert.Contains(t, FormatStatus(false, "closed"), "○")
	assert.Contains(t, FormatStatus(false, "closed"), "closed")
}

func TestFormatResult(t *testing.T) {
	assert.Contains(t, FormatResult(true, "saved"), IconSuccess)
	assert.Contains(t, FormatResult(false, "failed"), IconError)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "SIZE"},
		[][]string{{"SIM-1", "1920x1080"}, {"SIM-2", "2560x1440"}},
	)
	for _, want := range []string{"NAME", "SIZE", "SIM-1", "2560x1440"} {
		assert.Contains(t, out, want)
	}
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 4, "border, header, rows")
}

func TestCreateSeparator(t *testing.T) {
	assert.Equal(t, 50, strings.Count(CreateSeparator(0, ""), "─"))
	assert.Equal(t, 3, strings.Count(CreateSeparator(3, "="), "="))
}

func TestCategoryStyle(t *testing.T) {
	assert.Equal(t, 12, CategoryStyle("key").GetWidth())
	assert.NotPanics(t, func() { CategoryStyle("unheard-of").Render("x") })
}
