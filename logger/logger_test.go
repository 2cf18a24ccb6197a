package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitAndLevelString(t *testing.T) {
	defer Init("info")

	Init("debug")
	assert.Equal(t, "debug", LevelString())
	Init("WARN")
	assert.Equal(t, "warn", LevelString())
	Init("Error")
	assert.Equal(t, "error", LevelString())
	Init("nonsense")
	assert.Equal(t, "info", LevelString())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	defer Init("info")

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg %d", 1)
	Errorf("error-msg")

	out := buf.String()
	assert.NotContains(t, out, "debug-msg")
	assert.NotContains(t, out, "info-msg")
	assert.Contains(t, out, "warn-msg 1")
	assert.Contains(t, out, "error-msg")
	assert.Contains(t, out, "WARN")
}
