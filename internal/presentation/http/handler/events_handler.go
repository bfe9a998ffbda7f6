package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/logger"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

// EventsHandler streams record changes to clients as server-sent events
type EventsHandler struct {
	subscriber event.Subscriber
	heartbeat  time.Duration
}

// NewEventsHandler creates a new change stream handler
func NewEventsHandler(subscriber event.Subscriber, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &EventsHandler{subscriber: subscriber, heartbeat: heartbeat}
}

// Stream sends every change until the client disconnects. ?collection=sales,inventory
// narrows the stream.
func (h *EventsHandler) Stream(c *gin.Context) {
	log := logger.GetGinLogger(c)
	ctx := c.Request.Context()

	changes, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	wanted := map[string]bool{}
	for _, name := range strings.Split(c.Query("collection"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = true
		}
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	writeEvent(c.Writer, "connected", fmt.Sprintf(`{"at":%q}`, time.Now().UTC().Format(time.RFC3339)))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	log.Debug("change stream opened")
	for {
		select {
		case <-ctx.Done():
			log.Debug("change stream closed")
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()
		case change, ok := <-changes:
			if !ok {
				return
			}
			if len(wanted) > 0 && !wanted[change.Collection] {
				continue
			}
			data, err := json.Marshal(change)
			if err != nil {
				log.Warn("failed to encode change", zap.Error(err))
				continue
			}
			writeEvent(c.Writer, "change", string(data))
			c.Writer.Flush()
		}
	}
}

func writeEvent(w io.Writer, name, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
