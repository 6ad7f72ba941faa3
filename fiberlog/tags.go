package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TagPid       = "pid"
	TagLatency   = "latency"
	TagStatus    = "status"
	TagMethod    = "method"
	TagPath      = "path"
	TagURL       = "url"
	TagIP        = "ip"
	TagBody      = "body"
	TagResBody   = "res_body"
	TagUserAgent = "user_agent"
	RequestID    = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"
	localsData      = "fiberlog_data"
)

// FuncTag resolves the value of one log field for a finished request.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid       int
	start     time.Time
	end       time.Time
	requestID string
}

func getFuncTagMap(cfg Config, pid int) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, d *data) interface{} {
			return c.OriginalURL()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if skipBody(cfg, c) {
				return ""
			}
			return string(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			if skipBody(cfg, c) {
				return ""
			}
			if strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMEApplicationJSON) {
				return string(c.Response().Body())
			}
			return ""
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			return d.requestID
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func skipBody(cfg Config, c *fiber.Ctx) bool {
	for _, prefix := range cfg.SkipBodyPaths {
		if strings.HasPrefix(c.Path(), prefix) {
			return true
		}
	}
	return false
}

func requestID(c *fiber.Ctx) string {
	id := c.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(HeaderRequestID, id)
	return id
}

// GetRequestID returns the id assigned to the current request by the middleware.
func GetRequestID(c *fiber.Ctx) string {
	d, ok := c.Locals(localsData).(*data)
	if !ok {
		return ""
	}
	return d.requestID
}
