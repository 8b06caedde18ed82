package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing human-readable lines to w. Verbosity 0 shows
// Info (where warnings go) and errors; each -v enables one more V-level.
func New(verbosity int, w io.Writer) logr.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	enc := zapcore.NewConsoleEncoder(encCfg)

	lvl := zap.NewAtomicLevelAt(levelFor(verbosity))
	sink := zapcore.AddSync(w)
	zlog := zap.New(zapcore.NewCore(enc, sink, lvl), zap.ErrorOutput(sink))
	return zapr.NewLogger(zlog)
}

// levelFor maps CLI verbosity onto zap levels. zapr turns V(n) into level -n.
func levelFor(verbosity int) zapcore.Level {
	if verbosity <= 0 {
		return zapcore.InfoLevel
	}
	return zapcore.Level(-verbosity)
}
