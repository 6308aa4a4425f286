package controller

import (
	"net/http"

	"bbexpress-api/internal/service"
	"bbexpress-api/internal/storage"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Files service.FileStore
}

func NewUploadController(files service.FileStore) *UploadController {
	return &UploadController{Files: files}
}

// POST /admin/uploads — admin only; sube una imagen al proveedor alojado
func (ctl *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta el fichero"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.ValidateFile(fileHeader.Size, contentType); err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	result, err := ctl.Files.Upload(fileHeader.Filename, contentType, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DELETE /admin/uploads/:publicId — admin only
func (ctl *UploadController) DeleteImage(c *gin.Context) {
	if err := ctl.Files.Delete(c.Param("publicId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "imagen eliminada"})
}
