package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/muxtab/muxtab/internal/config"
)

var (
	logger    *slog.Logger
	logLevel  slog.Level
	logFormat string
	mu        sync.Mutex
)

// Config controls logger initialization.
type Config struct {
	Level  string
	Format string // "text" or "json"
	File   string // explicit log file; auto-generated under LogDir when empty and TUIMode
	// TUIMode redirects output to a file: slog writing to stderr would
	// corrupt the alternate screen while bubbletea owns the terminal.
	TUIMode bool
}

func init() {
	Initialize()
}

// Initialize sets up the package logger from the environment. Safe to call
// more than once; later calls replace the handler.
func Initialize() {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if debug := os.Getenv("MUXTAB_DEBUG"); debug == "1" || debug == "true" {
			levelStr = "DEBUG"
		} else {
			levelStr = "INFO"
		}
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "text"
	}

	InitializeWithConfig(Config{Level: levelStr, Format: format})
}

// InitializeWithConfig sets up the package logger from explicit config.
func InitializeWithConfig(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	logLevel = parseLevel(cfg.Level)
	logFormat = strings.ToLower(cfg.Format)
	if logFormat != "json" {
		logFormat = "text"
	}

	var out io.Writer = os.Stderr
	if cfg.TUIMode || cfg.File != "" {
		if f := openLogFile(cfg.File); f != nil {
			out = f
		}
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if logFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger = slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) *os.File {
	if path == "" {
		logDir, err := config.LogDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(logDir, time.Now().Format("2006-01-02")+".log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	return f
}

// GetLogger returns the package logger.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		// init() normally runs first; this covers direct test use.
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}
	return logger
}

// GetLevel returns the active log level.
func GetLevel() slog.Level {
	mu.Lock()
	defer mu.Unlock()
	return logLevel
}

// GetFormat returns the active handler format ("text" or "json").
func GetFormat() string {
	mu.Lock()
	defer mu.Unlock()
	return logFormat
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}
