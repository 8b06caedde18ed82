package logging

import (
	"bytes"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		expected  zapcore.Level
	}{
		{-1, zapcore.InfoLevel},
		{0, zapcore.InfoLevel},
		{1, zapcore.DebugLevel},
		{2, zapcore.Level(-2)},
	}

	for _, tt := range tests {
		if got := levelFor(tt.verbosity); got != tt.expected {
			t.Errorf("levelFor(%d) = %v, want %v", tt.verbosity, got, tt.expected)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("default keeps warnings and drops V(1)", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(0, &buf)
		log.V(1).Info("hidden")
		log.Info("ignoring footer result element", "element", "bogus=7")
		log.Error(nil, "shown")
		out := buf.String()
		if bytes.Contains(buf.Bytes(), []byte("hidden")) {
			t.Errorf("V(1) message should be filtered, got %q", out)
		}
		if !bytes.Contains(buf.Bytes(), []byte("bogus=7")) {
			t.Errorf("warning missing, got %q", out)
		}
		if !bytes.Contains(buf.Bytes(), []byte("shown")) {
			t.Errorf("error message missing, got %q", out)
		}
	})

	t.Run("verbose keeps V(1)", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(1, &buf)
		log.V(1).Info("detail", "rule", "MiniTest")
		if !bytes.Contains(buf.Bytes(), []byte("detail")) {
			t.Errorf("V(1) message missing, got %q", buf.String())
		}
	})
}
