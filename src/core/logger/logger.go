package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"quizservice/src/core/config"
)

// Log is the process-wide logger. Setup must run after config.SetupEnv so the
// level can be read from APP_MODE.
var Log = logrus.New()

func Setup() {
	logLvl := logrus.InfoLevel
	if config.Config("APP_MODE") == "debug" {
		logLvl = logrus.DebugLevel
	}

	Log.SetOutput(os.Stderr)
	Log.SetFormatter(new(logrus.TextFormatter))
	Log.SetLevel(logLvl)
}
