package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/server"
)

func (h *Handler) getCurrent(c *gin.Context, p *host.Point) {
	if p.Mode() != host.ModeExclusive {
		h.fail(c, p, apperrors.InvalidInput("mode", "point "+p.ID()+" is "+string(p.Mode())))
		return
	}
	server.RespondOK(c, CurrentView{ID: p.Exclusive.CurrentID()})
}

func (h *Handler) setCurrent(c *gin.Context, p *host.Point) {
	var req setCurrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("id", err.Error()))
		return
	}
	if err := p.SetCurrent(req.ID); err != nil {
		h.fail(c, p, err)
		return
	}
	server.RespondOK(c, CurrentView{ID: p.Exclusive.CurrentID()})
}

func (h *Handler) removeCurrent(c *gin.Context, p *host.Point) {
	if err := p.RemoveCurrent(); err != nil {
		h.fail(c, p, err)
		return
	}
	server.RespondOK(c, CurrentView{ID: p.Exclusive.CurrentID()})
}

func (h *Handler) getActive(c *gin.Context, p *host.Point) {
	if p.Mode() != host.ModeSelective {
		h.fail(c, p, apperrors.InvalidInput("mode", "point "+p.ID()+" is "+string(p.Mode())))
		return
	}
	server.RespondOK(c, ActiveView{IDs: p.ActiveIDs()})
}

func (h *Handler) activate(c *gin.Context, p *host.Point) {
	if err := p.Activate(c.Param("id")); err != nil {
		h.fail(c, p, err)
		return
	}
	server.RespondOK(c, ActiveView{IDs: p.ActiveIDs()})
}

func (h *Handler) deactivate(c *gin.Context, p *host.Point) {
	if err := p.Deactivate(c.Param("id")); err != nil {
		h.fail(c, p, err)
		return
	}
	server.RespondNoContent(c)
}
