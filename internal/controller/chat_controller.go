package controller

import (
	"net/http"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Service *service.ChatService
}

func NewChatController(s *service.ChatService) *ChatController {
	return &ChatController{Service: s}
}

// POST /chat — widget de soporte del sitio
func (ctl *ChatController) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := ctl.Service.Reply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}
