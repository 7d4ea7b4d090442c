package xlog

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

func (lvl logLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

// ParseLogLevel is case-insensitive, unknown names fall back to DEBUG.
func ParseLogLevel(level string) logLevel {
	switch lvl := logLevel(strings.ToUpper(strings.TrimSpace(level))); lvl {
	case LogLevelInfo, LogLevelWarn, LogLevelError:
		return lvl
	default:
	}
	return LogLevelDebug
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

// ParseLogEncoder maps "text" and "plain" to PlainText, the rest to JSON.
func ParseLogEncoder(name string) logEncoderType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "plain":
		return PlainText
	default:
	}
	return JSON
}

type logOutWriterType uint8

const (
	StdOut logOutWriterType = iota
	StdErr
	testMemAsOut
	_writerMax
)

const coreKeyIgnored = ""

type outWriters struct {
	lock    sync.RWMutex
	writers map[logOutWriterType]zapcore.WriteSyncer
}

func (w *outWriters) get(typ logOutWriterType) (zapcore.WriteSyncer, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()
	ws, ok := w.writers[typ]
	return ws, ok
}

func (w *outWriters) put(typ logOutWriterType, ws zapcore.WriteSyncer) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.writers[typ] = ws
}

var (
	writerMap = &outWriters{
		writers: map[logOutWriterType]zapcore.WriteSyncer{
			StdOut: &zapcore.BufferedWriteSyncer{WS: os.Stdout, Size: 512 * 1024, FlushInterval: 30 * time.Second},
			StdErr: zapcore.Lock(os.Stderr),
		},
	}
	encoderMap = map[logEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
		JSON:      zapcore.NewJSONEncoder,
		PlainText: zapcore.NewConsoleEncoder,
	}
)

func getEncoderByType(typ logEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func getOutWriterByType(typ logOutWriterType) zapcore.WriteSyncer {
	out, ok := writerMap.get(typ)
	if !ok {
		return zapcore.Lock(os.Stdout)
	}
	return out
}

type XLogErr string

func (err XLogErr) Error() string {
	return string(err)
}

const (
	ErrUnknownEncoder XLogErr = "[XLogger] unknown encoder"
	ErrUnknownWriter  XLogErr = "[XLogger] unknown writer"
)

// XLogger is the Uber zap logger behind a narrow interface.
//
// Named returns a child logger sharing the level enabler, the name is
// printed under the "component" key.
type XLogger interface {
	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Named(name string) XLogger

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
