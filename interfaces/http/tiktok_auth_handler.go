package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-publisher/domain/dto"
	"social-publisher/infrastructure/logger"
	"social-publisher/usecase"
)

type ITikTokAuthHandler interface {
	Authorize(c *gin.Context)
	Callback(c *gin.Context)
	Token(c *gin.Context)
}

type TikTokAuthHandler struct {
	authUsecase usecase.ITikTokAuthUsecase
}

func NewTikTokAuthHandler(authUsecase usecase.ITikTokAuthUsecase) ITikTokAuthHandler {
	return &TikTokAuthHandler{authUsecase: authUsecase}
}

// Authorize redirects the operator's browser to the TikTok consent screen.
func (h *TikTokAuthHandler) Authorize(c *gin.Context) {
	url, err := h.authUsecase.GenerateAuthorization(c.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generating authorization URL")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: err.Error()})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback receives the authorization code and completes the PKCE exchange.
func (h *TikTokAuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, dto.Res{
			ResponseCode:    "400",
			ResponseMessage: errParam + ": " + c.Query("error_description"),
		})
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "state and code are required"})
		return
	}

	cred, err := h.authUsecase.ExchangeCode(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownState) {
			c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "TikTok autenticado correctamente",
		Data:            gin.H{"expires_at": cred.ExpiresAt},
	})
}

// Token reports the stored TikTok credential.
func (h *TikTokAuthHandler) Token(c *gin.Context) {
	cred, err := h.authUsecase.GetCredential(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: "No hay token de TikTok"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "OK", Data: cred})
}
