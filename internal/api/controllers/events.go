package controllers

import (
	"fmt"
	"net/http"
	"time"

	"ripweb/internal/app"

	"github.com/labstack/echo/v5"
)

// heartbeatInterval bounds how long the gateway sits idle before probing the
// connection. The probe is a liveness check: a quiet interval alone never
// ends the stream, only a failed write does.
const heartbeatInterval = 30 * time.Second

type EventsController struct {
	App *app.Context
}

// Handle upgrades the request to an SSE stream. The first message is the
// connected handshake; every bus event published afterwards follows, in
// publish order, until the client goes away.
func (ctrl *EventsController) Handle(c *echo.Context) error {
	sub := ctrl.App.Bus.Subscribe()
	defer ctrl.App.Bus.Unsubscribe(sub)

	res := c.Response()
	header := res.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no") // disable nginx buffering
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case payload, ok := <-sub.C():
			if !ok {
				// The bus dropped us (mailbox overflow); nothing to do.
				return nil
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.(http.Flusher).Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": heartbeat\n\n"); err != nil {
				return nil
			}
			res.(http.Flusher).Flush()
		}
	}
}
