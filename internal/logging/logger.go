package logging

import (
	"os"
	"strings"
	"time"

	"github.com/2beens/cyclingprofile/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	ServiceName      string
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger and returns a func that flushes
// pending sentry events and closes the log file; call it before exiting.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	// must be added before the sentry hook, hooks fire in registration order
	logrus.AddHook(NewFieldsHook(params.ServiceName, params.Environment))

	sentryOn := false
	if params.SentryEnabled && params.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		}); err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			sentryOn = true
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			logrus.Infoln("sentry set up successfully")
		}
	} else if params.SentryEnabled {
		logrus.Warnln("sentry enabled, but DSN not set; use SENTRY_DSN")
	}

	flushSentry := func() {
		if sentryOn {
			sentry.Flush(2 * time.Second)
		}
	}

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Debugln("writing logs only to STDOUT")
		return flushSentry
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}
	rotatedFile := &lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    50, // megabytes
		MaxBackups: 20,
		Compress:   true,
	}

	if params.LogToStdout {
		logrus.SetOutput(pkg.NewCombinedWriter(os.Stdout, rotatedFile))
		logrus.Infof("writing logs to [%s] and STDOUT", params.LogFileName)
	} else {
		logrus.SetOutput(rotatedFile)
	}

	return func() {
		flushSentry()
		logrus.SetOutput(os.Stdout)
		_ = rotatedFile.Close()
	}
}

// GetLevel maps a config log level to logrus; unknown values mean trace.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
