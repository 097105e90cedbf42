package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Debugf("hidden %d", 1)
	l.Infof("loaded %d actions", 12)
	l.Warnf("fallback for %s", "events.json")
	l.Event("trigger", 3, "server_outage")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[SIM-INFO] ")
	assert.Contains(t, out, "loaded 12 actions")
	assert.Contains(t, out, "[SIM-WARN] ")
	assert.Contains(t, out, "[EVENT:trigger] turn=3 | server_outage")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debugf("rolled %.2f", 0.5)
	assert.Contains(t, buf.String(), "rolled 0.50")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Infof("x")
		l.Debugf("x")
		l.Warnf("x")
		l.Errorf("x")
		l.Event("x", 1, "y")
	})
}
