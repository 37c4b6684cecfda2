package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

type level int

const (
	debugLevel level = iota
	infoLevel
	warnLevel
	errorLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (lv level) String() string {
	return levelNames[lv]
}

var levelColors = [...]string{"\033[90m", "\033[32m", "\033[33m", "\033[31m"}

const (
	FormatText = "text"
	FormatJSON = "json"

	colorReset          = "\033[0m"
	defaultMaxSizeBytes = 20 * 1024 * 1024
)

// Options come from app config. Zero values mean text output at DEBUG to
// stdout with no file.
type Options struct {
	Level     string
	Format    string
	FilePath  string
	MaxSizeMB int
}

type logger struct {
	mu       sync.Mutex
	out      io.Writer
	color    bool
	minLevel level
	json     bool

	filePath string
	maxSize  int64
	file     *os.File
	size     int64
}

var global = &logger{out: os.Stdout, color: true}

// Configure replaces the process logger. The previous log file, if any, is
// closed.
func Configure(opts Options) error {
	next, err := newLogger(os.Stdout, opts)
	if err != nil {
		return err
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	if global.file != nil {
		_ = global.file.Close()
	}
	global.out = next.out
	global.color = next.color
	global.minLevel = next.minLevel
	global.json = next.json
	global.filePath = next.filePath
	global.maxSize = next.maxSize
	global.file = nil
	global.size = 0
	return nil
}

func newLogger(out io.Writer, opts Options) (*logger, error) {
	minLevel, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "", FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	maxSize := int64(defaultMaxSizeBytes)
	if opts.MaxSizeMB > 0 {
		maxSize = int64(opts.MaxSizeMB) * 1024 * 1024
	}
	return &logger{
		out:      out,
		color:    out == os.Stdout && format != FormatJSON,
		minLevel: minLevel,
		json:     format == FormatJSON,
		filePath: strings.TrimSpace(opts.FilePath),
		maxSize:  maxSize,
	}, nil
}

func parseLevel(raw string) (level, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return debugLevel, nil
	}
	for i, name := range levelNames {
		if name == raw {
			return level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", raw)
}

func Debugf(format string, args ...any) {
	global.logf(debugLevel, format, args...)
}

func Infof(format string, args ...any) {
	global.logf(infoLevel, format, args...)
}

func Warnf(format string, args ...any) {
	global.logf(warnLevel, format, args...)
}

func Errorf(format string, args ...any) {
	global.logf(errorLevel, format, args...)
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Caller    string `json:"caller"`
	Message   string `json:"message"`
}

func (l *logger) logf(lv level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lv < l.minLevel {
		return
	}
	e := entry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     lv.String(),
		Caller:    caller(3),
		Message:   fmt.Sprintf(format, args...),
	}
	line := l.render(e)

	if l.color {
		fmt.Fprintln(l.out, levelColors[lv]+line+colorReset)
	} else {
		fmt.Fprintln(l.out, line)
	}
	if l.filePath != "" {
		if err := l.appendFile(line + "\n"); err != nil {
			fmt.Fprintf(os.Stderr, "log file %s: %v\n", l.filePath, err)
		}
	}
}

func (l *logger) render(e entry) string {
	if l.json {
		if b, err := json.Marshal(e); err == nil {
			return string(b)
		}
	}
	return strings.Join([]string{e.Timestamp, e.Level, e.Caller, e.Message}, ":")
}

// appendFile expects l.mu to be held. The file is rotated before a write
// that would push it past maxSize.
func (l *logger) appendFile(line string) error {
	if l.file == nil {
		if err := l.open(); err != nil {
			return err
		}
	}
	if l.size > 0 && l.size+int64(len(line)) > l.maxSize {
		if err := l.rotate(); err != nil {
			return err
		}
	}
	n, err := l.file.WriteString(line)
	l.size += int64(n)
	return err
}

func (l *logger) open() error {
	if err := os.MkdirAll(filepath.Dir(l.filePath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	l.file = f
	l.size = info.Size()
	return nil
}

// rotate renames the current file to <name>.<timestamp>[.<n>]<ext> and starts
// a fresh one.
func (l *logger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil

	ext := filepath.Ext(l.filePath)
	stem := strings.TrimSuffix(l.filePath, ext)
	stamp := time.Now().Format("20060102T150405")
	target := stem + "." + stamp + ext
	for n := 1; fileExists(target); n++ {
		target = fmt.Sprintf("%s.%s.%d%s", stem, stamp, n, ext)
	}
	if err := os.Rename(l.filePath, target); err != nil {
		return err
	}
	return l.open()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// caller reports the package-qualified function name skip frames up.
func caller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
