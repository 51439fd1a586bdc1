package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelDebug
)

// Options configures the Logger.
type Options struct {
	// Out is where user-facing logs go. Defaults to os.Stdout.
	Out io.Writer

	// PlainWriter, if non-nil, additionally receives every log line
	// unstyled (e.g. a log file).
	PlainWriter io.Writer

	// LogLevel controls how much reaches Out:
	// error < info < warn < debug
	LogLevel LogLevel

	// Component identifies the log source (e.g. "camship").
	// If empty, no component tag is included.
	Component string
}

// Logger is a small leveled stdout logger with lipgloss styling.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	plain     io.Writer
	style     styles
	component string
	logLevel  LogLevel
}

type styles struct {
	spacer   lipgloss.Style
	logInfo  lipgloss.Style
	logWarn  lipgloss.Style
	logError lipgloss.Style
	banner   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		spacer:   lipgloss.NewStyle(),
		logInfo:  lipgloss.NewStyle(),
		logWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange-ish
		logError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		banner:   lipgloss.NewStyle().Bold(true).Border(lipgloss.NormalBorder()).Padding(0, 1).Margin(1, 0),
	}
}

// New creates a new Logger.
func New(opts Options) *Logger {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &Logger{
		out:       opts.Out,
		plain:     opts.PlainWriter,
		style:     defaultStyles(),
		logLevel:  opts.LogLevel,
		component: opts.Component,
	}
}

func (l *Logger) SetLogLevel(logLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logLevel = logLevel
}

func (l *Logger) Spacer() {
	l.printLog(false, "", l.style.spacer, "")
}

func (l *Logger) Error(format string, args ...any) {
	l.printLog(false, "ERR ", l.style.logError, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	silent := l.logLevel < LogLevelInfo
	l.printLog(silent, "INFO", l.style.logInfo, format, args...)
}

// InfoSilent logs only to the plain writer, never to stdout.
func (l *Logger) InfoSilent(format string, args ...any) {
	l.printLog(true, "INFO", l.style.logInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	silent := l.logLevel < LogLevelWarn
	l.printLog(silent, "WARN", l.style.logWarn, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if l.logLevel >= LogLevelDebug {
		l.printLog(false, "DEBG", l.style.logInfo, format, args...)
	}
}

func (l *Logger) printLog(silent bool, level string, style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02T15:04:05.000")

	componentTag := ""
	if l.component != "" {
		componentTag = fmt.Sprintf("[%s] ", l.component)
	}

	plainLine := componentTag + msg + "\n"
	if level != "" {
		plainLine = fmt.Sprintf("[%s] %s%s\n", level, componentTag, msg)
	}

	stdoutLine := fmt.Sprintf("[%s] %s%s", timestamp, componentTag, msg)
	if level != "" {
		stdoutLine = fmt.Sprintf("[%s] [%s] %s%s", timestamp, level, componentTag, msg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.plain != nil {
		io.WriteString(l.plain, plainLine)
	}

	if !silent {
		fmt.Fprintln(l.out, style.Render(stdoutLine))
	}
}

// Banner prints a boxed title.
func (l *Logger) Banner(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.plain != nil {
		io.WriteString(l.plain, fmt.Sprintf("\n===== %s =====\n\n", title))
	}

	fmt.Fprintln(l.out, l.style.banner.Render(title))
}
