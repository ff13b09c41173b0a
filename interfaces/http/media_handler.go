package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-publisher/domain/dto"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/media"
)

type IMediaHandler interface {
	Upload(c *gin.Context)
}

type MediaHandler struct {
	storage *media.LocalStorage
}

func NewMediaHandler(storage *media.LocalStorage) IMediaHandler {
	return &MediaHandler{storage: storage}
}

// Upload stores a raw media file and returns its public /media/ URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "file is required"})
		return
	}

	url, err := h.storage.Save(fileHeader)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while saving media file")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.Res{ResponseCode: "201", ResponseMessage: "Created", Data: gin.H{"url": url}})
}
