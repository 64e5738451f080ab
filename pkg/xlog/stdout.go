package xlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	ColorSuffix = "\033[0m"

	ColorDebug   = "\033[1;36m"
	ColorWarning = "\033[1;33m"
	ColorError   = "\033[1;31m"
)

// LevelColor returns the ansi prefix and suffix for a zap level name
func LevelColor(level string) (string, string) {
	switch level {
	case "debug":
		return ColorDebug, ColorSuffix
	case "warn":
		return ColorWarning, ColorSuffix
	case "error", "dpanic", "panic", "fatal":
		return ColorError, ColorSuffix
	default:
		return "", ""
	}
}

// StdoutLogger turns zap json entries into single readable lines
type StdoutLogger struct {
	Enabled    bool
	Color      bool
	Out        io.Writer
	ServerHook func(p []byte)
}

var stdoutLogger StdoutLogger

func SetServerHook(hook func(p []byte)) {
	stdoutLogger.ServerHook = hook
}

func (l *StdoutLogger) Write(p []byte) (n int, err error) {
	n = len(p)
	if !l.Enabled && l.ServerHook == nil {
		return
	}

	entry := map[string]interface{}{}
	if json.Unmarshal(p, &entry) != nil {
		return
	}

	if l.Enabled {
		out := l.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintln(out, l.Format(entry))
	}

	if level, _ := entry["level"].(string); l.ServerHook != nil && level != "debug" {
		l.ServerHook(p)
	}

	return
}

// Format renders one entry as "[app] 2006/01/02 15:04:05 dir/file.go:12   msg { x-k:v }"
func (l *StdoutLogger) Format(entry map[string]interface{}) string {
	extra := ""
	for k, v := range entry {
		if strings.HasPrefix(k, "x-") {
			extra += k + ":" + fmt.Sprint(v) + " "
		}
	}
	if len(extra) > 0 {
		extra = "{ " + extra + "}"
	}

	pre, suf := "", ""
	if l.Color {
		level, _ := entry["level"].(string)
		pre, suf = LevelColor(level)
	}

	tStr := fmt.Sprint(entry["time"])
	if t, err := time.Parse("2006-01-02T15:04:05.999Z07:00", tStr); err == nil {
		tStr = t.Format("2006/01/02 15:04:05")
	}

	fname, _ := entry["file"].(string)
	if len(fname) < 20 {
		fname += strings.Repeat(" ", 20-len(fname))
	}
	if len(fname) > 20 {
		fname = fname[len(fname)-20:]
	}

	return strings.TrimRight(fmt.Sprintf("%s[%s] %s %s: %s %s", pre, entry["app"], tStr, fname, entry["msg"], extra), " ") + suf
}
