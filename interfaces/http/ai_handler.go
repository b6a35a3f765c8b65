package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"douyin-manager/domain/dto"
	"douyin-manager/infrastructure/logger"
	"douyin-manager/usecase"
)

type IAIHandler interface {
	GenerateText(c *gin.Context)
	GenerateTitle(c *gin.Context)
	GenerateDescription(c *gin.Context)
	GenerateScript(c *gin.Context)
	GenerateImage(c *gin.Context)
	History(c *gin.Context)
}

type AIHandler struct {
	aiUsecase usecase.IAIUsecase
}

func NewAIHandler(aiUsecase usecase.IAIUsecase) IAIHandler {
	return &AIHandler{aiUsecase: aiUsecase}
}

func (h *AIHandler) GenerateText(c *gin.Context) {
	var req dto.AITextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.aiUsecase.GenerateText(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Text generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) GenerateTitle(c *gin.Context) {
	var req dto.AITitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.aiUsecase.GenerateTitle(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Title generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) GenerateDescription(c *gin.Context) {
	var req dto.AIDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.aiUsecase.GenerateDescription(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Description generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) GenerateScript(c *gin.Context) {
	var req dto.AIScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.aiUsecase.GenerateScript(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Script generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) GenerateImage(c *gin.Context) {
	var req dto.AIImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.aiUsecase.GenerateImage(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Image generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AIHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	generations, err := h.aiUsecase.History(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"generations": generations})
}
