package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/extkit/component"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/server"
	"github.com/kbukum/extkit/sse"
)

// Handler serves the extkit HTTP API for one host.
type Handler struct {
	host       *host.Host
	components *component.Registry
	log        *logger.Logger

	hub         *sse.Hub
	unsubscribe func()
}

// New returns a handler. components may be nil, in which case /health
// reports healthy with no component details.
func New(h *host.Host, components *component.Registry, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Get("api")
	}
	handler := &Handler{host: h, components: components, log: log}
	for _, opt := range opts {
		opt(handler)
	}
	if handler.hub != nil {
		hub := handler.hub
		handler.unsubscribe = h.Subscribe(func(c host.Change) { publish(hub, log, c) })
	}
	return handler
}

// Close stops forwarding host changes to the event hub.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.health)
	r.GET("/version", h.version)

	points := r.Group("/points")
	points.GET("", h.listPoints)
	points.GET("/:point/factories", h.withPoint(h.listFactories))
	points.GET("/:point/collections", h.withPoint(h.listCollections))
	points.GET("/:point/menu", h.withPoint(h.menu))
	points.POST("/:point/menu", h.withPoint(h.runAction))
	if h.hub != nil {
		r.GET("/events", h.streamAll)
		points.GET("/:point/events", h.withPoint(h.streamPoint))
	}

	ex := r.Group("/exclusive")
	ex.GET("/:point", h.withPoint(h.getCurrent))
	ex.PUT("/:point", h.withPoint(h.setCurrent))
	ex.DELETE("/:point", h.withPoint(h.removeCurrent))

	sel := r.Group("/selective")
	sel.GET("/:point", h.withPoint(h.getActive))
	sel.PUT("/:point/:id", h.withPoint(h.activate))
	sel.DELETE("/:point/:id", h.withPoint(h.deactivate))
}

func (h *Handler) withPoint(fn func(*gin.Context, *host.Point)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.host.Point(c.Param("point"))
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		fn(c, p)
	}
}

func (h *Handler) fail(c *gin.Context, p *host.Point, err error) {
	appErr := apperrors.Wrap(err)
	if appErr.HTTPStatus >= 500 || appErr.Code == apperrors.ErrCodeConstructionFailed {
		h.log.Warn("request failed", logger.MergeWithError(logger.Fields(
			logger.FieldExtensionPoint, p.ID(),
			logger.FieldOperation, c.Request.Method+" "+c.FullPath(),
		), err))
	}
	server.RespondWithError(c, appErr)
}
