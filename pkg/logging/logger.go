package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with structured logging for fleaflip
type Logger struct {
	*logrus.Logger
	closer io.Closer
}

// NewLogger creates a new structured logger writing to stdout
func NewLogger(level, format string) *Logger {
	logger := logrus.New()

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logger.SetLevel(logrus.FatalLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	switch strings.ToLower(format) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	logger.SetOutput(os.Stdout)

	return &Logger{Logger: logger}
}

// NewDiscardLogger returns a logger that drops everything, for tests
func NewDiscardLogger() *Logger {
	l := NewLogger("error", "text")
	l.SetOutput(io.Discard)
	return l
}

// SetOutput sets the logger output destination
func (l *Logger) SetOutput(output io.Writer) {
	l.Logger.SetOutput(output)
}

// SetOutputFile appends log output to path. The terminal UI owns stdout,
// so the interactive binary logs here instead.
func (l *Logger) SetOutputFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	l.Logger.SetOutput(f)
	l.closer = f
	return nil
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// WithComponent adds a component field to all log entries
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithTarkov adds data source context to log entries
func (l *Logger) WithTarkov() *logrus.Entry {
	return l.WithField("component", "tarkov_api")
}

// WithDiscord adds Discord context to log entries
func (l *Logger) WithDiscord() *logrus.Entry {
	return l.WithField("component", "discord_bot")
}

// WithSelection adds selection controller context to log entries
func (l *Logger) WithSelection() *logrus.Entry {
	return l.WithField("component", "selection")
}

// WithError adds error context
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.WithField("error", err.Error())
}

// APICall logs API call attempts
func (l *Logger) APICall(component, endpoint string, method string) {
	l.WithField("component", component).WithFields(logrus.Fields{
		"endpoint": endpoint,
		"method":   method,
	}).Debug("API call initiated")
}

// APISuccess logs successful API responses
func (l *Logger) APISuccess(component, endpoint string, duration float64, statusCode int) {
	l.WithField("component", component).WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"duration_ms": duration * 1000,
		"status_code": statusCode,
	}).Debug("API call successful")
}

// APIError logs API call failures
func (l *Logger) APIError(component, endpoint string, err error, duration float64, statusCode int) {
	l.WithField("component", component).WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"duration_ms": duration * 1000,
		"status_code": statusCode,
		"error":       err.Error(),
	}).Error("API call failed")
}

// CatalogBuilt logs the outcome of a catalog build
func (l *Logger) CatalogBuilt(source string, fetched, published, missingMarket int, duration float64) {
	l.WithTarkov().WithFields(logrus.Fields{
		"source":           source,
		"items_fetched":    fetched,
		"items_published":  published,
		"missing_low_24h":  missingMarket,
		"duration_seconds": duration,
	}).Info("Catalog built")
}

// ClipboardWrite logs a clipboard write triggered by a key event
func (l *Logger) ClipboardWrite(event string, length int) {
	l.WithSelection().WithFields(logrus.Fields{
		"event":  event,
		"length": length,
	}).Debug("Clipboard updated")
}

// DiscordMessage logs Discord message events
func (l *Logger) DiscordMessage(channelID, messageID string, length int) {
	l.WithDiscord().WithFields(logrus.Fields{
		"channel_id":     channelID,
		"message_id":     messageID,
		"message_length": length,
	}).Info("Discord message sent")
}

// DiscordError logs Discord API errors
func (l *Logger) DiscordError(action string, err error) {
	l.WithDiscord().WithFields(logrus.Fields{
		"action": action,
		"error":  err.Error(),
	}).Error("Discord operation failed")
}
