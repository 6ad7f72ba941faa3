package initializers

import (
	"party-find-backend/config"
	"party-find-backend/fiberlog"

	log "github.com/sirupsen/logrus"
)

func newJSONFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetFormatter(newJSONFormatter())
	log.SetLevel(level)

	logger := log.New()
	logger.SetFormatter(newJSONFormatter())
	logger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.RequestID,
		},
		SkipBodyPaths: []string{"/api/v1/auth"},
	}
}
