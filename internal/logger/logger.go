package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	WarnLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// Plain stdout loggers by default so code paths that log never hit a nil
// logger; InitLoggers swaps in file rotation for real deployments.
func init() {
	InfoLogger = newLogger(logrus.InfoLevel, nil)
	WarnLogger = newLogger(logrus.WarnLevel, nil)
	ErrorLogger = newLogger(logrus.ErrorLevel, nil)
}

// InitLoggers enables rotating file output; call once at startup.
func InitLoggers() {
	InfoLogger = newLogger(logrus.InfoLevel, rotator("logs/info.log"))
	WarnLogger = newLogger(logrus.WarnLevel, rotator("logs/warn.log"))
	ErrorLogger = newLogger(logrus.ErrorLevel, rotator("logs/error.log"))
}

func rotator(file string) io.Writer {
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func newLogger(level logrus.Level, extra io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if extra != nil {
		l.SetOutput(io.MultiWriter(os.Stdout, extra))
	} else {
		l.SetOutput(os.Stdout)
	}

	return l
}
