package controller

import (
	"net/http"

	"bbexpress-api/internal/model"
	"bbexpress-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigController struct {
	Service *service.ConfigService
}

func NewConfigController(s *service.ConfigService) *ConfigController {
	return &ConfigController{Service: s}
}

// GET /config — pública: tarifas, fechas y contacto que pinta el sitio
func (ctl *ConfigController) Get(c *gin.Context) {
	cfg, err := ctl.Service.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// PUT /admin/config — admin only
func (ctl *ConfigController) Update(c *gin.Context) {
	var cfg model.SiteConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := ctl.Service.Update(c.Request.Context(), &cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
