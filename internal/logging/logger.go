package logging

import (
	"io"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rotated log files are kept, only their size is capped
const logFileMaxSizeMB = 50

type LoggerSetupParams struct {
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	// sentry
	SentryEnabled bool
	SentryDSN     string
	Environment   string
	ServiceName   string
	Release       string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	out, target := newOutput(params.LogFileName, params.LogToStdout, os.Stdout)
	logrus.SetOutput(out)
	logrus.Debugf("writing logs to %s", target)

	if params.SentryEnabled {
		setupSentry(params)
	}
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              params.SentryDSN,
		Environment:      params.Environment,
		ServerName:       params.ServiceName,
		Release:          params.Release,
		AttachStacktrace: true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		logrus.Errorf("sentry init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infof("sentry set up for %s [%s]", params.ServiceName, params.Environment)
}

// newOutput picks where log lines go. Without a file name logs go to stdout
// only, whatever toStdout says.
func newOutput(fileName string, toStdout bool, stdout io.Writer) (io.Writer, string) {
	if fileName == "" {
		return stdout, "stdout"
	}

	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	file := &lumberjack.Logger{
		Filename:  fileName,
		MaxSize:   logFileMaxSizeMB,
		LocalTime: false, // UTC
		Compress:  true,
	}

	if !toStdout {
		return file, fileName
	}
	return newFanOutWriter(stdout, file), fileName + " and stdout"
}

// GetLevel parses a logrus level name, falling back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
