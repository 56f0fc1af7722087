package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type data struct {
	start time.Time
	end   time.Time
}

type tagFunc func(c *fiber.Ctx, d *data) interface{}

var tagFuncs = map[string]tagFunc{
	TagStatus: func(c *fiber.Ctx, d *data) interface{} {
		return c.Response().StatusCode()
	},
	TagLatency: func(c *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, d *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, d *data) interface{} {
		return c.Path()
	},
	TagIP: func(c *fiber.Ctx, d *data) interface{} {
		return c.IP()
	},
	TagBody: func(c *fiber.Ctx, d *data) interface{} {
		return string(c.Body())
	},
	RequestID: func(c *fiber.Ctx, d *data) interface{} {
		return c.GetRespHeader(fiber.HeaderXRequestID)
	},
}

func getFields(tags []string, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields, len(tags))
	for _, tag := range tags {
		ft, ok := tagFuncs[tag]
		if !ok {
			continue
		}
		value := ft(c, d)
		if strValue, isStr := value.(string); isStr {
			if strValue != "" {
				f[tag] = strValue
			}
		} else {
			f[tag] = value
		}
	}
	return f
}

// New creates a request logging middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	return func(c *fiber.Ctx) error {
		if c.GetRespHeader(fiber.HeaderXRequestID) == "" {
			c.Set(fiber.HeaderXRequestID, uuid.NewString())
		}
		d := &data{start: time.Now()}
		err := c.Next()
		d.end = time.Now()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		fields := getFields(cfg.Tags, c, d)
		status := c.Response().StatusCode()
		switch {
		case cfg.Logger == nil:
			log.WithFields(fields).Info("request")
		case status >= fiber.StatusInternalServerError:
			cfg.Logger.WithFields(fields).Error("request")
		default:
			cfg.Logger.WithFields(fields).Info("request")
		}
		return err
	}
}
