package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nope"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	n, err := w.Write([]byte("hello gin\n"))
	assert.NoError(t, err)
	assert.Equal(t, 10, n)
	_, _ = w.Write([]byte("\n"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "hello gin", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	}
}

func TestToStdLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	std := ToStdLogger(zap.New(core), zapcore.InfoLevel)
	std.Print("slow sql")
	assert.Equal(t, 1, logs.FilterMessage("slow sql").Len())
}

func TestBuild_WritesJSON(t *testing.T) {
	var buf syncBuffer
	l, done := Build(Options{Level: "info", JSON: true, Output: &buf})
	l.Debug("hidden")
	l.Info("shown", zap.String("k", "v"))
	done()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

type syncBuffer struct{ b []byte }

func (s *syncBuffer) Write(p []byte) (int, error) { s.b = append(s.b, p...); return len(p), nil }
func (s *syncBuffer) Sync() error                 { return nil }
func (s *syncBuffer) String() string              { return string(s.b) }
