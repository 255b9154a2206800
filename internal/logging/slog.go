package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Manager manages slog-based logging with optional Graylog shipping.
type Manager struct {
	logger *slog.Logger

	gelfWriter *gelf.Writer
}

// NewManager creates a new slog-based logging manager.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system with console, optional file and
// optional Graylog output. graylogAddr may be empty to disable GELF.
func (m *Manager) Setup(file io.Writer, level string, graylogAddr string) error {
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	// Console handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	// File handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	// Graylog handler: GELF messages are JSON, so ship a JSON handler
	// through the GELF writer.
	if graylogAddr != "" {
		w, err := gelf.NewWriter(graylogAddr)
		if err != nil {
			return err
		}
		m.gelfWriter = w
		handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
	return nil
}

// Logger returns the configured slog.Logger.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Debug logs at debug level through the dispatcher.Logger interface.
func (m *Manager) Debug(msg string, keysAndValues ...any) {
	m.Logger().Debug(msg, keysAndValues...)
}

// Info logs at info level.
func (m *Manager) Info(msg string, keysAndValues ...any) {
	m.Logger().Info(msg, keysAndValues...)
}

// Error logs at error level.
func (m *Manager) Error(msg string, keysAndValues ...any) {
	m.Logger().Error(msg, keysAndValues...)
}

// Close releases the GELF connection if one was opened.
func (m *Manager) Close() error {
	if m.gelfWriter != nil {
		return m.gelfWriter.Close()
	}
	return nil
}
