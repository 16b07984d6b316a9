package httpserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/scatch/internal/logging"
	"github.com/Skotchmaster/scatch/internal/mykafka"
)

// Flash is the per-request one-shot result surfaced to the client alongside
// the payload.
type Flash struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successFlash(msg string) Flash { return Flash{Success: msg} }
func errorFlash(msg string) Flash   { return Flash{Error: msg} }

// publishEvent sends a domain event with a generated event id. A nil
// producer means events are disabled; a failed publish is logged and never
// fails the request.
func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	event["event_id"] = uuid.NewString()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
