package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"social-publisher/domain/dto"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
	"social-publisher/infrastructure/utils"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

type IAuthHandler interface {
	Login(c *gin.Context)
}

// AuthHandler issues operator tokens from the single configured credential
// pair.
type AuthHandler struct {
	app configuration.App
}

func NewAuthHandler(app configuration.App) IAuthHandler {
	return &AuthHandler{app: app}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, fmt.Sprintf("%s %v", ErrorUnmarshal, err.Error()))
		return
	}

	if req.UserName != h.app.OperatorUser || req.Password != h.app.OperatorPassword {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(map[string]interface{}{
		"user_name": req.UserName,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}, h.app.SecretKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Error while generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.Res{
		ResponseCode:    "200",
		ResponseMessage: "OK",
		Data:            gin.H{"token": token},
	})
}
