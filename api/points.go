package api

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/server"
)

func (h *Handler) listPoints(c *gin.Context) {
	server.RespondOK(c, PointViews(h.host))
}

func (h *Handler) listFactories(c *gin.Context, p *host.Point) {
	server.RespondOK(c, FactoryViews(p))
}

func (h *Handler) listCollections(c *gin.Context, p *host.Point) {
	collections := p.Registry.Collections()
	out := make([]CollectionView, 0, len(collections))
	for _, col := range collections {
		members := extension.IDs(col.Factories())
		if members == nil {
			members = []string{}
		}
		out = append(out, CollectionView{
			Name:      col.Name(),
			Addable:   col.AllowAddNew(),
			Removable: col.AllowRemove(),
			Members:   members,
		})
	}
	server.RespondOK(c, out)
}

func (h *Handler) menu(c *gin.Context, p *host.Point) {
	server.RespondOK(c, ActionViews(p.Menu()))
}

func (h *Handler) runAction(c *gin.Context, p *host.Point) {
	var req runActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("path", err.Error()))
		return
	}
	if err := p.RunAction(req.Path...); err != nil {
		h.fail(c, p, err)
		return
	}
	server.RespondOK(c, ActionViews(p.Menu()))
}
