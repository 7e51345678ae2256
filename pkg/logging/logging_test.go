package logging

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: " warning ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitForTUI_RoutesEntriesToChannel(t *testing.T) {
	ch := InitForTUI(LevelInfo)
	defer CloseTUIChannel()

	Debug("Push", "filtered %d", 1)
	Error("Transport", errors.New("boom"), "request %s failed", "GET /config")

	require.Len(t, ch, 1)
	entry := <-ch
	assert.Equal(t, LevelError, entry.Level)
	assert.Equal(t, "Transport", entry.Subsystem)
	assert.Equal(t, "request GET /config failed", entry.Message)
	assert.EqualError(t, entry.Err, "boom")
}

func TestInitForCLI_WritesText(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Info("CLI", "hello %s", "agent")

	out := buf.String()
	assert.Contains(t, out, "hello agent")
	assert.Contains(t, out, "subsystem=CLI")
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestCloseTUIChannel_WhileLogging(t *testing.T) {
	ch := InitForTUI(LevelDebug)
	go func() {
		for range ch {
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				Info("Controller", "entry %d", j)
			}
		}()
	}
	CloseTUIChannel()
	wg.Wait()

	// Entries after close are dropped instead of panicking.
	assert.NotPanics(t, func() { Warn("Controller", "late") })
}
