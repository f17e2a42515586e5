package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/version"
)

func (h *Handler) health(c *gin.Context) {
	reports := []component.Health{}
	if h.components != nil {
		reports = h.components.HealthAll(c.Request.Context())
	}
	status := component.Overall(reports)
	code := http.StatusOK
	if status == component.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, HealthView{Status: status, Components: reports})
}

func (h *Handler) version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
