package xlog

import (
	"flag"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Zap = zap.NewNop()

	EnvMode  = "development"
	EnvColor = false

	optsName       string
	optsLogPath    string
	optsServerHook func(p []byte)
	optsDebug      bool
)

func init() {
	mode := os.Getenv("XLOG_MODE")
	if mode != "" {
		EnvMode = mode
	}

	color := os.Getenv("XLOG_COLOR")
	if color == "" {
		if flag.Lookup("test.v") == nil {
			color = "true"
		} else {
			color = "false"
		}
	}
	EnvColor = color != "false" && color != "0"
}

// Init builds the shared zap logger, writing json lines to logPath (rotated by lumberjack)
// and a short human readable line to stdout.
func Init(name string, logPath string, serverHook func(p []byte)) {
	if name == "" {
		name = "coinsreg"
	}
	if logPath == "" {
		logPath = path.Join("", "logs", name+".log")
	}

	optsName = name
	optsLogPath = logPath
	optsServerHook = serverHook
	optsDebug = EnvMode != "release"

	Zap = NewZap(optsDebug)
	Zap.Info("zap init succeed", FileField())
}

// Sync flushes buffered entries, call it before the process exits
func Sync() {
	_ = Zap.Sync()
}

func NewZap(debug bool) *zap.Logger {
	hook := lumberjack.Logger{
		Filename:   optsLogPath,
		MaxSize:    64, // MB
		MaxAge:     14, // days
		MaxBackups: 10,
		Compress:   true,
	}
	stdoutLogger = StdoutLogger{ServerHook: optsServerHook, Color: EnvColor, Enabled: true}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "file",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	atomicLevel := zap.NewAtomicLevel()
	if debug {
		atomicLevel.SetLevel(zap.DebugLevel)
	} else {
		atomicLevel.SetLevel(zap.InfoLevel)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(
			zapcore.AddSync(&hook),
			zapcore.AddSync(&stdoutLogger),
		),
		atomicLevel,
	)

	opts := []zap.Option{zap.Fields(zap.String("app", optsName))}
	if debug {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...)
}

func FileField() zap.Field {
	return zap.String("file", FileWithLineNum())
}

// FileWithLineNum returns dir/file.go:line of the first caller outside of the logging packages
func FileWithLineNum() string {
	var (
		file string
		line int
	)

	for i := 0; i < 15; i++ {
		_, _file, _line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		if !strings.Contains(_file, "/pkg/xlog/") &&
			!strings.Contains(_file, "/pkg/model/xgorm/") &&
			!strings.Contains(_file, "gorm.io/gorm") {
			file = _file
			line = _line
			break
		}
	}

	var dir, fname string
	ss := strings.Split(file, "/")
	if len(ss) > 0 {
		fname = ss[len(ss)-1]
	}
	if len(ss) > 1 {
		dir = ss[len(ss)-2]
	}

	return fmt.Sprintf("%s/%s:%d", dir, fname, line)
}
