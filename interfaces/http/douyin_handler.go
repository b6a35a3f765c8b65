package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"douyin-manager/domain/dto"
	"douyin-manager/domain/model"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/infrastructure/utils"
	"douyin-manager/usecase"
)

type IDouyinHandler interface {
	AuthURL(c *gin.Context)
	Callback(c *gin.Context)
	ConnectionStatus(c *gin.Context)
	Disconnect(c *gin.Context)
	ListVideos(c *gin.Context)
	Publish(c *gin.Context)
	PublishStatus(c *gin.Context)
}

type DouyinHandler struct {
	douyinUsecase usecase.IDouyinUsecase
}

func NewDouyinHandler(douyinUsecase usecase.IDouyinUsecase) IDouyinHandler {
	return &DouyinHandler{douyinUsecase: douyinUsecase}
}

// AuthURL hands the client the consent URL to redirect the user to.
func (h *DouyinHandler) AuthURL(c *gin.Context) {
	state := utils.RandomState()
	c.JSON(http.StatusOK, gin.H{
		"auth_url": h.douyinUsecase.AuthorizationURL(state),
		"state":    state,
	})
}

type callbackRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *DouyinHandler) Callback(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code is required"})
		return
	}

	if err := h.douyinUsecase.HandleCallback(c.Request.Context(), userID, req.Code); err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Douyin authorization failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "douyin account connected"})
}

func (h *DouyinHandler) ConnectionStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	connected, info, err := h.douyinUsecase.ConnectionStatus(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": connected, "profile": info})
}

func (h *DouyinHandler) Disconnect(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.douyinUsecase.Disconnect(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "douyin account disconnected"})
}

func (h *DouyinHandler) ListVideos(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req dto.DouyinVideoListRequest
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	count, _ := strconv.Atoi(c.DefaultQuery("count", "20"))
	req.Cursor = cursor
	req.Count = count

	list, err := h.douyinUsecase.ListPlatformVideos(c.Request.Context(), userID, &req)
	if err != nil {
		h.renderPlatformError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type publishRequest struct {
	VideoID int64 `json:"video_id" binding:"required"`
}

func (h *DouyinHandler) Publish(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
		return
	}

	task, err := h.douyinUsecase.Publish(c.Request.Context(), userID, req.VideoID)
	if err != nil {
		h.renderPlatformError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *DouyinHandler) PublishStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	taskID := c.Param("taskId")

	report, err := h.douyinUsecase.CheckStatus(c.Request.Context(), userID, taskID)
	if err != nil {
		h.renderPlatformError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// renderPlatformError maps domain errors onto HTTP statuses.
func (h *DouyinHandler) renderPlatformError(c *gin.Context, err error) {
	var publishErr *model.PublishError
	var refreshErr *model.RefreshError
	var queryErr *model.StatusQueryError

	switch {
	case errors.Is(err, model.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "douyin account not authorized, connect it first"})
	case errors.Is(err, usecase.ErrVideoNotFound), errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &refreshErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &publishErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stage": string(publishErr.Stage)})
	case errors.As(err, &queryErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "task_id": queryErr.TaskID})
	default:
		logger.GetLogger().WithField("error", err).Error("Douyin operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
