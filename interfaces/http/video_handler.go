package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"douyin-manager/domain/dto"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/usecase"
)

type IVideoHandler interface {
	Upload(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type VideoHandler struct {
	videoUsecase usecase.IVideoUsecase
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

func (h *VideoHandler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req dto.VideoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.videoUsecase.Upload(c.Request.Context(), userID, req)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Warn("Video upload failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *VideoHandler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := h.videoUsecase.Get(c.Request.Context(), id, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrVideoNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req dto.VideoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.videoUsecase.List(c.Request.Context(), userID, req)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Error while listing videos")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VideoHandler) Update(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.videoUsecase.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrVideoNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	if err := h.videoUsecase.Delete(c.Request.Context(), id, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrVideoNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
