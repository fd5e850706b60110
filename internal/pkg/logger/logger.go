package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logrus-backed logger.
type Options struct {
	Level   string
	File    string
	Verbose bool
	Console io.Writer
}

// Logger adapts logrus to ports.Logger.
type Logger struct {
	entry *logrus.Logger
	file  *lumberjack.Logger
}

// New builds a Logger. Without File, Level applies to the console. With File, the
// rotating file receives everything at Level while the console only gets warnings
// and errors, or every enabled level when Verbose is set.
func New(opts Options) *Logger {
	log := logrus.New()
	log.SetLevel(parseLevel(opts.Level, opts.Verbose))
	log.SetFormatter(&formatter.Formatter{
		NoColors:        opts.File != "",
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	l := &Logger{entry: log}
	log.SetReportCaller(opts.Verbose)
	if opts.File == "" {
		log.SetOutput(console)
		return l
	}

	_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
	l.file = &lumberjack.Logger{
		Filename:   opts.File,
		LocalTime:  true,
		Compress:   true,
		MaxSize:    10,
		MaxAge:     14,
		MaxBackups: 3,
	}
	log.SetOutput(l.file)
	consoleLevel := logrus.WarnLevel
	if opts.Verbose {
		consoleLevel = logrus.TraceLevel
	}
	log.AddHook(&consoleHook{out: console, levels: logrus.AllLevels[:consoleLevel+1]})
	return l
}

// Close releases the rotating log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// consoleHook copies entries at the hook's levels to the console.
type consoleHook struct {
	mu     sync.Mutex
	out    io.Writer
	levels []logrus.Level
}

func (h *consoleHook) Levels() []logrus.Level { return h.levels }

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(line)
	return err
}

// NewStd creates a console-only logger; verbose enables debug output.
func NewStd(verbose bool) *Logger {
	return New(Options{Verbose: verbose})
}

// NewNop discards everything.
func NewNop() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return &Logger{entry: log}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	e := l.entry.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

func parseLevel(level string, verbose bool) logrus.Level {
	if verbose {
		return logrus.DebugLevel
	}
	if level == "" {
		return logrus.WarnLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
