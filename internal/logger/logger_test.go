package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetLevelIgnoresEmpty(t *testing.T) {
	prev := Logger.GetLevel()
	defer Logger.SetLevel(prev)

	SetLevel("error")
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())

	SetLevel("")
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())
}

func TestSetOutput(t *testing.T) {
	prev := Logger.GetLevel()
	defer Logger.SetLevel(prev)

	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel("info")
	Info("window created", "handle", "0x1")
	assert.Contains(t, buf.String(), "window created")
	assert.Contains(t, buf.String(), "handle=0x1")
}
