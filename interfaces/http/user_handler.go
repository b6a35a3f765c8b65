package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"douyin-manager/domain/model"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/usecase"
)

const ErrorUnmarshal = "Error while unmarshal"

type IUserHandler interface {
	Login(c *gin.Context)
	Register(c *gin.Context)
	Me(c *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.userUsecase.Login(c.Request.Context(), req)
	if res.ResponseCode != "200" {
		c.JSON(http.StatusUnauthorized, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.ReqRegister
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.userUsecase.Register(c.Request.Context(), req)
	switch res.ResponseCode {
	case "200":
		c.JSON(http.StatusOK, res)
	case "409":
		c.JSON(http.StatusConflict, res)
	default:
		c.JSON(http.StatusInternalServerError, res)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")
	user, err := h.userUsecase.Me(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
