package browserlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)
	l.Debug("hidden")
	l.Info("also hidden")
	l.Warn("visible warning")
	l.Error("visible error")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible warning")
	require.Contains(t, out, "visible error")
	require.Contains(t, out, "[WARN]")
	require.Contains(t, out, "[ERROR]")
}

func TestLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DebugLevel)
	l.Debugf("value=%d", 42)
	require.Contains(t, buf.String(), "value=42")
	require.Contains(t, buf.String(), "[DEBUG]")
}

func TestLevelStrings(t *testing.T) {
	require.Equal(t, "DEBUG", DebugLevel.String())
	require.Equal(t, "INFO", InfoLevel.String())
	require.Equal(t, "WARN", WarnLevel.String())
	require.Equal(t, "ERROR", ErrorLevel.String())
}

func TestWarnSetReportsEachPairOnce(t *testing.T) {
	w := NewWarnSet()
	require.True(t, w.Once("layout", "float not supported"))
	require.False(t, w.Once("layout", "float not supported"))
	// A different component with the same message is a distinct key.
	require.True(t, w.Once("cascade", "float not supported"))
	require.True(t, w.Once("layout", "another message"))
}

func TestWarnSetConcurrentInsertsAreSafe(t *testing.T) {
	w := NewWarnSet()
	done := make(chan bool)
	firsts := make(chan bool, 64)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 8; j++ {
				firsts <- w.Once("race", strings.Repeat("m", j+1))
			}
			done <- true
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	close(firsts)
	count := 0
	for first := range firsts {
		if first {
			count++
		}
	}
	// Each of the 8 distinct messages was first exactly once.
	require.Equal(t, 8, count)
}
