package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/sse"
)

// allTopic prefixes the ids of clients subscribed to every point.
const allTopic = "all"

// Option configures a Handler.
type Option func(*Handler)

// WithHub streams activation changes through hub on /events and
// /points/:point/events. The hub must be running for clients to connect.
func WithHub(hub *sse.Hub) Option {
	return func(h *Handler) { h.hub = hub }
}

// publish forwards c to the stream clients. A reload concerns every point,
// so it goes to everyone.
func publish(b sse.Broadcaster, log *logger.Logger, c host.Change) {
	data, err := json.Marshal(c)
	if err != nil {
		log.Error("Failed to encode change", logger.MergeWithError(nil, err))
		return
	}
	ev := sse.Event{Type: string(c.Kind), Data: data}
	if c.Point == "" {
		b.BroadcastToPattern("*", ev)
		return
	}
	b.BroadcastToPattern(c.Point+":*", ev)
	b.BroadcastToPattern(allTopic+":*", ev)
}

func (h *Handler) streamAll(c *gin.Context) {
	h.stream(c, allTopic, PointViews(h.host))
}

func (h *Handler) streamPoint(c *gin.Context, p *host.Point) {
	h.stream(c, p.ID(), pointView(p))
}

// stream opens an event stream whose "connected" event carries the
// current state, so a client needs no separate request to catch up.
func (h *Handler) stream(c *gin.Context, topic string, state any) {
	data, err := json.Marshal(state)
	if err != nil {
		h.log.Error("Failed to encode stream state", logger.MergeWithError(nil, err))
		data = []byte("{}")
	}
	id := topic + ":" + uuid.NewString()
	h.log.Debug("Event stream opened", logger.Fields("client_id", id))
	sse.ServeSSE(h.hub, c.Writer, c.Request, id, data)
	h.log.Debug("Event stream closed", logger.Fields("client_id", id))
}
