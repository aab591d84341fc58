package rest

import (
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	"github.com/nobotchat/relay/pkg/msgworker"
	"github.com/nobotchat/relay/pkg/utils"
	"github.com/nobotchat/relay/ui/websocket"
)

type Monitoring struct {
	Hub       *websocket.Hub
	Pool      *msgworker.Pool
	StartedAt time.Time
}

func InitRestMonitoring(app fiber.Router, hub *websocket.Hub, pool *msgworker.Pool) Monitoring {
	rest := Monitoring{Hub: hub, Pool: pool, StartedAt: time.Now()}
	app.Get("/health", rest.Health)
	app.Get("/stats", rest.Stats)
	return rest
}

func (controller *Monitoring) Health(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "ok",
	})
}

func (controller *Monitoring) Stats(c *fiber.Ctx) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Runtime statistics",
		Results: fiber.Map{
			"uptime":      time.Since(controller.StartedAt).Round(time.Second).String(),
			"startedAt":   humanize.Time(controller.StartedAt),
			"goroutines":  runtime.NumGoroutine(),
			"memoryAlloc": humanize.Bytes(mem.Alloc),
			"relay":       controller.Hub.Stats(),
			"workerPool":  controller.Pool.GetStats(),
		},
	})
}
