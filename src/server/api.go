package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/tributemc/tribute-gateway/src/global"
)

const Version = "1.0.0"

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func API(gCtx global.Context, app fiber.Router) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(&fiber.Map{
			"status":  "running",
			"service": "Tribute Webhook Gateway",
			"version": Version,
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(&fiber.Map{
			"status": "healthy",
		})
	})

	app.Get("/webhooks", func(c *fiber.Ctx) error {
		limit := int64(defaultHistoryLimit)
		if v := c.Query("limit"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil || parsed < 1 {
				return c.SendStatus(400)
			}
			limit = parsed
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		records, err := gCtx.Inst().Storage.ListWebhooks(c.Context(), limit)
		if err != nil {
			logrus.Errorf("storage, err=%v", err)
			return c.SendStatus(500)
		}

		data, err := json.Marshal(records)
		if err != nil {
			logrus.Errorf("json, err=%v", err)
			return err
		}

		c.Set("Content-Type", "application/json")

		return c.Send(data)
	})
}
