package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

func SetupLogging() *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stdout,
		Level: logrus.InfoLevel,
		Hooks: make(logrus.LevelHooks),
	}

	return &logger
}

// SetLevel parses level and applies it, keeping the current level on a parse error.
func SetLevel(logger *logrus.Logger, level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(parsed)
	return nil
}
