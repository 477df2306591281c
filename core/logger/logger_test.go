package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOutput swaps the global logger's streams for buffers and restores
// everything when the test finishes.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	globalLogger.mu.Lock()
	prevOut, prevErr := globalLogger.out, globalLogger.errOut
	prevColor, prevVerbose := globalLogger.color, globalLogger.verbose
	prevMirrors := globalLogger.mirrors

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	globalLogger.out, globalLogger.errOut = out, errOut
	globalLogger.color = false
	globalLogger.mirrors = nil
	globalLogger.mu.Unlock()

	t.Cleanup(func() {
		globalLogger.mu.Lock()
		globalLogger.out, globalLogger.errOut = prevOut, prevErr
		globalLogger.color, globalLogger.verbose = prevColor, prevVerbose
		globalLogger.mirrors = prevMirrors
		globalLogger.mu.Unlock()
	})
	return out, errOut
}

func TestInfoWritesToOut(t *testing.T) {
	out, errOut := captureOutput(t)

	Info("hello %d", 42)

	assert.Contains(t, out.String(), "INFO")
	assert.Contains(t, out.String(), "hello 42")
	assert.Empty(t, errOut.String())
}

func TestErrorWritesToErrOut(t *testing.T) {
	out, errOut := captureOutput(t)

	Error("boom: %v", "bad")

	assert.Contains(t, errOut.String(), "ERROR")
	assert.Contains(t, errOut.String(), "boom: bad")
	assert.Empty(t, out.String())
}

func TestDebugGatedByVerbose(t *testing.T) {
	out, _ := captureOutput(t)

	SetVerbose(false)
	Debug("hidden")
	assert.Empty(t, out.String())

	SetVerbose(true)
	Debug("visible")
	assert.Contains(t, out.String(), "visible")
}

func TestMirrorsGetPlainCopies(t *testing.T) {
	out, _ := captureOutput(t)

	var mirror bytes.Buffer
	AddMirror(&mirror)
	SetColor(true)

	Info("mirrored")

	assert.True(t, strings.Contains(out.String(), "\033["), "main stream should be colored")
	assert.Contains(t, mirror.String(), "mirrored")
	assert.False(t, strings.Contains(mirror.String(), "\033["), "mirror should be plain")
}

func TestGetLogFromLevel(t *testing.T) {
	out, errOut := captureOutput(t)

	GetLogFromLevel(WARN)("careful")
	assert.Contains(t, out.String(), "WARN")

	GetLogFromLevel(ERROR)("broken")
	assert.Contains(t, errOut.String(), "broken")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "INFO", INFO.String())
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}
