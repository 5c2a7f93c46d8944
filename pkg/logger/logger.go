package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func Init(environment, level string) {
	log.SetOutput(os.Stdout)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		log.SetLevel(logrus.DebugLevel)
	}

	if level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(parsed)
		} else {
			log.Warnf("unknown log level %q, keeping %s", level, log.GetLevel())
		}
	}
}

// Logger exposes the shared logger for components that take an injected
// *logrus.Entry.
func Logger() *logrus.Logger {
	return log
}

func WithComponent(name string) *logrus.Entry {
	return log.WithField("component", name)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

func Info(args ...interface{}) {
	log.Info(args...)
}

func Error(args ...interface{}) {
	log.Error(args...)
}

func Debug(args ...interface{}) {
	log.Debug(args...)
}

func Warn(args ...interface{}) {
	log.Warn(args...)
}

func Fatal(args ...interface{}) {
	log.Fatal(args...)
}
