package controller

import (
	"net/http"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ShipmentController struct {
	Service *service.ShipmentService
	Auth    *service.AuthService
}

func NewShipmentController(s *service.ShipmentService, auth *service.AuthService) *ShipmentController {
	return &ShipmentController{Service: s, Auth: auth}
}

// POST /shipments — requiere token
func (ctl *ShipmentController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// foto de contacto del dueño para el asiento del libro
	owner, err := ctl.Auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	shipment, err := ctl.Service.Create(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

// POST /shipments/bulk — requiere token
func (ctl *ShipmentController) CreateBulk(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateShipmentsBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner, err := ctl.Auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	shipments, err := ctl.Service.CreateBulk(c.Request.Context(), owner, req.Shipments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipments)
}

// GET /shipments — propios para usuario, todos para admin (?status= opcional)
func (ctl *ShipmentController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	shipments, err := ctl.Service.List(c.Request.Context(), userID, isAdmin(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipments)
}

// GET /track/:tracking — pública, para el widget de seguimiento del sitio
func (ctl *ShipmentController) Track(c *gin.Context) {
	shipment, err := ctl.Service.TrackByNumber(c.Request.Context(), c.Param("tracking"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// PATCH /admin/shipments/:id/status — admin only
func (ctl *ShipmentController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, err := ctl.Service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// POST /admin/shipments/mark-arrived — admin only
func (ctl *ShipmentController) BulkMarkArrived(c *gin.Context) {
	var req dto.BulkMarkArrivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, missing, err := ctl.Service.BulkMarkArrived(c.Request.Context(), req.TrackingNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "missing": missing})
}
