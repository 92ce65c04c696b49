package api

import (
	"net/http"

	"fitcal/workout-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingsHandler exposes the per-user workout settings: timer presets and
// the plate inventory.
type SettingsHandler struct {
	settingsService service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// --- DTOs ---

type TimerStrategyRequest struct {
	Name        string `json:"name" binding:"required"`
	WorkSeconds int    `json:"workSeconds" binding:"required,min=1"`
	RestSeconds int    `json:"restSeconds" binding:"min=0"`
	Rounds      int    `json:"rounds" binding:"required,min=1"`
}

type WeightPlateRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

// --- Timer Strategies ---

func (h *SettingsHandler) CreateTimerStrategy(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req TimerStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	strategy, err := h.settingsService.CreateTimerStrategy(
		c.Request.Context(), userID, req.Name, req.WorkSeconds, req.RestSeconds, req.Rounds)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, strategy)
}

func (h *SettingsHandler) GetTimerStrategies(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	strategies, err := h.settingsService.GetTimerStrategies(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, strategies)
}

func (h *SettingsHandler) UpdateTimerStrategy(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	strategyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid timer strategy ID format.")
		return
	}
	var req TimerStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	strategy, err := h.settingsService.UpdateTimerStrategy(
		c.Request.Context(), userID, strategyID, req.Name, req.WorkSeconds, req.RestSeconds, req.Rounds)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, strategy)
}

func (h *SettingsHandler) DeleteTimerStrategy(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	strategyID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid timer strategy ID format.")
		return
	}
	if err := h.settingsService.DeleteTimerStrategy(c.Request.Context(), userID, strategyID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Weight Plates ---

func (h *SettingsHandler) CreateWeightPlate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req WeightPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plate, err := h.settingsService.CreateWeightPlate(c.Request.Context(), userID, req.WeightKg, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plate)
}

func (h *SettingsHandler) GetWeightPlates(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	plates, err := h.settingsService.GetWeightPlates(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plates)
}

func (h *SettingsHandler) UpdateWeightPlate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	plateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight plate ID format.")
		return
	}
	var req WeightPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plate, err := h.settingsService.UpdateWeightPlate(c.Request.Context(), userID, plateID, req.WeightKg, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plate)
}

func (h *SettingsHandler) DeleteWeightPlate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	plateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weight plate ID format.")
		return
	}
	if err := h.settingsService.DeleteWeightPlate(c.Request.Context(), userID, plateID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
