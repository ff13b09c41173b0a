package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/infrastructure/logger"
	"social-publisher/usecase"
)

type IPublishHandler interface {
	Publish(c *gin.Context)
}

type PublishHandler struct {
	publishUsecase usecase.IPublishUsecase
}

func NewPublishHandler(publishUsecase usecase.IPublishUsecase) IPublishHandler {
	return &PublishHandler{publishUsecase: publishUsecase}
}

// Publish drives one variant through the publication state machine. Parameter
// violations map to 400 and a missing variant to 404; platform failures come
// back as a 200 with the normalized result.
func (h *PublishHandler) Publish(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "Invalid id"})
		return
	}

	var req dto.ReqPublish
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	media := model.PublishMedia{
		ImageURL:  req.ImageURL,
		VideoURL:  req.VideoURL,
		Recipient: req.WhatsAppNumber,
	}

	result, err := h.publishUsecase.AttemptPublish(c.Request.Context(), variantID, media)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrVariantNotFound):
			c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: "Publicacion no encontrada"})
		case errors.Is(err, usecase.ErrMissingRecipient), errors.Is(err, usecase.ErrMissingMedia):
			c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
