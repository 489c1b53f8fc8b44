package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/rakmedia/hr-backend-go/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the JSON logger used by the process and the request logger.
// The returned closer flushes the rotating log file, if any.
func New(app config.AppConfig, logCfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if logCfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(logCfg.File), 0755); err != nil {
			return nil, nil, err
		}
		rotating := &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.MaxSizeMB,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAgeDays,
			Compress:   logCfg.Compress,
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	return NewWithWriter(out, app), closer, nil
}

// NewWithWriter writes ECS-shaped JSON records to w.
func NewWithWriter(w io.Writer, app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(app.Env != "development")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", app.Version),
		slog.String("env", app.Env),
	)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
