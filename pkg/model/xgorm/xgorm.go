// Package xgorm is a gorm logger writing through xlog, the caller position comes from xlog.FileWithLineNum.
package xgorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinsreg/pkg/xlog"

	gl "gorm.io/gorm/logger"
)

type (
	Config    = gl.Config
	Interface = gl.Interface
	LogLevel  = gl.LogLevel
)

var zapLogger = xlog.GetLogger()

type formats struct {
	info, warn, err            string
	trace, traceWarn, traceErr string
}

func plainFormats() formats {
	return formats{
		info:      "%s [info] ",
		warn:      "%s [warn] ",
		err:       "%s [error] ",
		trace:     "%s [%.3fms] [rows:%v] %s",
		traceWarn: "%s %s [%.3fms] [rows:%v] %s",
		traceErr:  "%s %s [%.3fms] [rows:%v] %s",
	}
}

func colorFormats() formats {
	return formats{
		info:      gl.Green + "%s " + gl.Reset + gl.Green + "[info] " + gl.Reset,
		warn:      gl.BlueBold + "%s " + gl.Reset + gl.Magenta + "[warn] " + gl.Reset,
		err:       gl.Magenta + "%s " + gl.Reset + gl.Red + "[error] " + gl.Reset,
		trace:     gl.Green + "%s " + gl.Reset + gl.Yellow + "[%.3fms] " + gl.BlueBold + "[rows:%v]" + gl.Reset + " %s",
		traceWarn: gl.Green + "%s " + gl.Yellow + "%s " + gl.Reset + gl.RedBold + "[%.3fms] " + gl.Yellow + "[rows:%v]" + gl.Magenta + " %s" + gl.Reset,
		traceErr:  gl.RedBold + "%s " + gl.MagentaBold + "%s " + gl.Reset + gl.Yellow + "[%.3fms] " + gl.BlueBold + "[rows:%v]" + gl.Reset + " %s",
	}
}

type logger struct {
	Config
	f formats
}

// New returns a gorm logger, the first argument is kept for gorm.logger.New compatibility and ignored
func New(_ gl.Writer, config Config) Interface {
	f := plainFormats()
	if config.Colorful {
		f = colorFormats()
	}
	return &logger{Config: config, f: f}
}

func (l *logger) LogMode(level LogLevel) Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gl.Info {
		zapLogger.Infof(l.f.info+msg, append([]interface{}{xlog.FileWithLineNum()}, data...)...)
	}
}

func (l *logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gl.Warn {
		zapLogger.Warningf(l.f.warn+msg, append([]interface{}{xlog.FileWithLineNum()}, data...)...)
	}
}

func (l *logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gl.Error {
		zapLogger.Errorf(l.f.err+msg, append([]interface{}{xlog.FileWithLineNum()}, data...)...)
	}
}

// Trace logs failed statements, slow statements and, at Info, every statement
func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gl.Silent {
		return
	}

	elapsed := float64(time.Since(begin).Nanoseconds()) / 1e6
	rowsOf := func(rows int64) interface{} {
		if rows == -1 {
			return "-"
		}
		return rows
	}

	switch {
	case err != nil && l.LogLevel >= gl.Error && (!errors.Is(err, gl.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		sql, rows := fc()
		zapLogger.Errorf(l.f.traceErr, xlog.FileWithLineNum(), err, elapsed, rowsOf(rows), sql)
	case l.SlowThreshold != 0 && time.Since(begin) > l.SlowThreshold && l.LogLevel >= gl.Warn:
		sql, rows := fc()
		slow := fmt.Sprintf("SLOW SQL >= %v", l.SlowThreshold)
		zapLogger.Warningf(l.f.traceWarn, xlog.FileWithLineNum(), slow, elapsed, rowsOf(rows), sql)
	case l.LogLevel == gl.Info:
		sql, rows := fc()
		zapLogger.Infof(l.f.trace, xlog.FileWithLineNum(), elapsed, rowsOf(rows), sql)
	}
}
