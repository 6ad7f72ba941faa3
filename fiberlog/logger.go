package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	cfg := ConfigDefault
	if len(config) != 0 {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg, pid)
	return func(c *fiber.Ctx) error {
		d := &data{
			pid:       pid,
			start:     time.Now(),
			requestID: requestID(c),
		}
		c.Locals(localsData, d)
		err := c.Next()
		d.end = time.Now()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		fields := getLogrusFields(ftm, c, d)
		var entry *log.Entry
		if cfg.Logger == nil {
			entry = log.WithFields(fields)
		} else {
			entry = cfg.Logger.WithFields(fields)
		}
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Error("api request")
		} else if c.Response().StatusCode() >= fiber.StatusMultipleChoices {
			entry.Warn("api request")
		} else {
			entry.Info("api request")
		}
		return err
	}
}
