package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/ruledata"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// CaptureLogger returns a JSON logger writing into the returned buffer
func CaptureLogger() (zerolog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return zerolog.New(buf), buf
}

// LogBuffer collects log lines
type LogBuffer struct {
	lines []string
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.lines = append(b.lines, string(p))
	return len(p), nil
}

// Lines returns every line written so far
func (b *LogBuffer) Lines() []string {
	return b.lines
}

// ParseRecord parses YAML rule data or fails the test
func ParseRecord(t *testing.T, src string) *ruledata.Record {
	t.Helper()
	rec, err := ruledata.Parse([]byte(src))
	require.NoError(t, err)
	return rec
}

// ParseBoard parses terrain rows or fails the test
func ParseBoard(t *testing.T, rows string) *core.Board {
	t.Helper()
	b, err := core.ParseBoard(rows)
	require.NoError(t, err)
	return b
}
