package controller

import (
	"errors"
	"net/http"

	"bbexpress-api/internal/repository"
	"bbexpress-api/internal/service"
	"bbexpress-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// respondError traduce errores de negocio a códigos HTTP. Lo que no sea un
// error conocido se registra y sale como 500 genérico con mensaje localizado.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no encontrado"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrTooManyAttempts),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransferStatus),
		errors.Is(err, service.ErrInvalidNotificationType),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.L().Error("Error no controlado en handler",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ha ocurrido un error, inténtalo de nuevo más tarde"})
	}
}

// currentUserID lee el id que dejó el middleware de auth.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("userRole") == "admin"
}

// pathID convierte el parámetro :id en ObjectID o corta con 400.
func pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identificador no válido"})
		return primitive.NilObjectID, false
	}
	return id, true
}
