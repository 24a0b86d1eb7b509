package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case Trace:
		return logrus.TraceLevel
	case Debug:
		return logrus.DebugLevel
	case Warn:
		return logrus.WarnLevel
	case Error:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type Field struct {
	Key string
	Val any
}

func F(key string, val any) Field { return Field{Key: key, Val: val} }

type Options struct {
	LogsDir string // empty disables the log file
	Level   string // trace|debug|info|warn|error
	Format  string // text|json
	Stdout  io.Writer
	Cmdline []string
	RunID   string // added to every record as run_id when set
}

type Logger struct {
	mu   sync.Mutex
	min  Level
	base *logrus.Logger
	file *os.File
	run  string
}

func New(opts Options) (*Logger, error) {
	min, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("invalid --log-format %q (allowed: text|json)", opts.Format)
	}

	console := opts.Stdout
	if console == nil {
		console = io.Discard
	}

	base := logrus.New()
	base.SetLevel(min.logrus())
	if format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "ts"},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			DisableColors:   true,
		})
	}

	l := &Logger{min: min, base: base, run: opts.RunID}

	logPath := ""
	if strings.TrimSpace(opts.LogsDir) != "" {
		if err := os.MkdirAll(opts.LogsDir, 0o755); err != nil {
			return nil, err
		}
		date := time.Now().Format("2006-01-02")
		logPath = filepath.Join(opts.LogsDir, fmt.Sprintf("%s.log", date))
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		base.SetOutput(io.MultiWriter(f, console))
	} else {
		base.SetOutput(console)
	}

	l.Debug("logger initialized", F("argv", opts.Cmdline), F("log_file", logPath), F("format", format), F("level", min.String()))
	return l, nil
}

// Nop returns a logger that drops every record.
func Nop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{min: Error + 1, base: base}
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.base.SetOutput(io.Discard)
		return err
	}
	return nil
}

func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("invalid --log-level %q (allowed: trace|debug|info|warn|error)", s)
	}
}

func (l *Logger) Enabled(level Level) bool { return l != nil && level >= l.min }

func (l *Logger) Trace(msg string, fields ...Field) { l.log(Trace, msg, fields...) }
func (l *Logger) Debug(msg string, fields ...Field) { l.log(Debug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(Info, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(Warn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(Error, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}
	data := make(logrus.Fields, len(fields)+1)
	if l.run != "" {
		data["run_id"] = l.run
	}
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		data[f.Key] = f.Val
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.base.WithFields(data).Log(level.logrus(), msg)
}
