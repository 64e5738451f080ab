package xlog

import (
	"fmt"
	"os"
	"strings"
)

type Logger struct {
	level int
}

const (
	TRACE = iota
	DEBUG
	INFO
	WARNING
	ERROR
	FATAL
)

var levelNames = []string{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARNING",
	"ERROR",
	"FATAL",
}

var _logger *Logger

// ParseLevel accepts the long and short level spellings used by XLOG_LVL, e.g. "DBG", "debug", "D"
func ParseLevel(s string) (level int, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "T", "TRC", "TRACE":
		return TRACE, true
	case "D", "DBG", "DEBUG":
		return DEBUG, true
	case "I", "INF", "INFO":
		return INFO, true
	case "W", "WRN", "WARN", "WARNING":
		return WARNING, true
	case "E", "ERR", "ERROR":
		return ERROR, true
	case "F", "FTL", "FATAL":
		return FATAL, true
	}
	return INFO, false
}

func GetLogger() *Logger {
	if _logger != nil {
		return _logger
	}
	lvl := os.Getenv("XLOG_LVL")
	level, _ := ParseLevel(lvl)
	_logger = &Logger{
		level: level,
	}
	_logger.Debugf("using xlog with %s, XLOG_LVL:%s", levelNames[level], lvl)
	return _logger
}

func (s *Logger) SetLevel(level string) {
	num, ok := ParseLevel(level)
	if !ok {
		s.Warningf("set xlog level to %s failed", level)
		return
	}
	s.level = num
	s.Infof("set xlog level to %s", levelNames[num])
}

func (s *Logger) SetLevelNum(num int) {
	s.level = num
}

func (s *Logger) GetLevel() int {
	return s.level
}

func (s *Logger) LevelName() string {
	if s.level < 0 || s.level >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[s.level]
}

func (s *Logger) Trace(args ...interface{}) {
	if TRACE >= s.level {
		Zap.Debug(fmt.Sprintf("[TRC] %v", argsToString(args)), FileField())
	}
}

func (s *Logger) Tracef(format string, args ...interface{}) {
	if TRACE >= s.level {
		Zap.Debug(fmt.Sprintf("[TRC] %v", fmt.Sprintf(format, args...)), FileField())
	}
}

func (s *Logger) Debug(args ...interface{}) {
	if DEBUG >= s.level {
		Zap.Debug(fmt.Sprintf("[DBG] %v", argsToString(args)), FileField())
	}
}

func (s *Logger) Debugf(format string, args ...interface{}) {
	if DEBUG >= s.level {
		Zap.Debug(fmt.Sprintf("[DBG] %v", fmt.Sprintf(format, args...)), FileField())
	}
}

func (s *Logger) Info(args ...interface{}) {
	if INFO >= s.level {
		Zap.Info(fmt.Sprintf("[INF] %v", argsToString(args)), FileField())
	}
}

func (s *Logger) Infof(format string, args ...interface{}) {
	if INFO >= s.level {
		Zap.Info(fmt.Sprintf("[INF] %v", fmt.Sprintf(format, args...)), FileField())
	}
}

func (s *Logger) Warning(args ...interface{}) {
	if WARNING >= s.level {
		Zap.Warn(fmt.Sprintf("[WRN] %v", argsToString(args)), FileField())
	}
}

func (s *Logger) Warningf(format string, args ...interface{}) {
	if WARNING >= s.level {
		Zap.Warn(fmt.Sprintf("[WRN] %v", fmt.Sprintf(format, args...)), FileField())
	}
}

func (s *Logger) Error(args ...interface{}) {
	if ERROR >= s.level {
		Zap.Error(fmt.Sprintf("[ERR] %v", argsToString(args)), FileField())
	}
}

func (s *Logger) Errorf(format string, args ...interface{}) {
	if ERROR >= s.level {
		Zap.Error(fmt.Sprintf("[ERR] %v", fmt.Sprintf(format, args...)), FileField())
	}
}

func (s *Logger) Fatal(args ...interface{}) {
	Zap.Fatal(fmt.Sprintf("[FTL] %v", argsToString(args)), FileField())
	os.Exit(1)
}

func (s *Logger) Fatalf(format string, args ...interface{}) {
	Zap.Fatal(fmt.Sprintf("[FTL] %v", fmt.Sprintf(format, args...)), FileField())
	os.Exit(1)
}

// Write lets the logger stand in as an io.Writer, e.g. for gorm's log.Logger
func (s *Logger) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if INFO >= s.level {
		Zap.Info(strings.TrimRight(string(p), "\n"), FileField())
	}
	return len(p), nil
}

func argsToString(args ...interface{}) string {
	s := fmt.Sprintf("%v", args...)
	if len(s) <= 2 {
		return s
	}
	return s[1 : len(s)-1]
}
