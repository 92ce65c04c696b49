package api

import (
	"net/http"
	"strconv"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type PlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Level       string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Mode        string `json:"mode" binding:"required,oneof=ongoing dated"`
	StartDate   string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

type TemplateEntryRequest struct {
	ExerciseID      string  `json:"exerciseId" binding:"required"`
	Sets            int     `json:"sets" binding:"min=0"`
	Reps            int     `json:"reps" binding:"min=0"`
	Weight          float64 `json:"weight"`
	DurationMinutes *int    `json:"durationMinutes"`
	Notes           string  `json:"notes"`
}

type DaySlotRequest struct {
	Entries []TemplateEntryRequest `json:"entries"`
}

// PlanResponse embeds the weekly template as-is; ObjectIDs marshal as hex.
type PlanResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description,omitempty"`
	Level          domain.PlanLevel      `json:"level"`
	Mode           domain.PlanMode       `json:"mode"`
	StartDate      *time.Time            `json:"startDate,omitempty"`
	EndDate        *time.Time            `json:"endDate,omitempty"`
	IsActive       bool                  `json:"isActive"`
	WeeklyTemplate domain.WeeklyTemplate `json:"weeklyTemplate"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func mapPlanToResponse(plan *domain.WorkoutPlan) PlanResponse {
	return PlanResponse{
		ID:             plan.ID.Hex(),
		Name:           plan.Name,
		Description:    plan.Description,
		Level:          plan.Level,
		Mode:           plan.Mode,
		StartDate:      plan.StartDate,
		EndDate:        plan.EndDate,
		IsActive:       plan.IsActive,
		WeeklyTemplate: plan.WeeklyTemplate,
		CreatedAt:      plan.CreatedAt,
		UpdatedAt:      plan.UpdatedAt,
	}
}

func (r *PlanRequest) toInput() (service.PlanInput, error) {
	input := service.PlanInput{
		Name:        r.Name,
		Description: r.Description,
		Level:       domain.PlanLevel(r.Level),
		Mode:        domain.PlanMode(r.Mode),
	}
	if r.StartDate != "" {
		d, err := parseDate(r.StartDate)
		if err != nil {
			return input, err
		}
		input.StartDate = &d
	}
	if r.EndDate != "" {
		d, err := parseDate(r.EndDate)
		if err != nil {
			return input, err
		}
		input.EndDate = &d
	}
	return input, nil
}

// --- Handler Methods ---

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected yyyy-mm-dd.")
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapPlanToResponse(plan))
}

func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	plans, err := h.planService.GetPlans(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = mapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlanByID(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected yyyy-mm-dd.")
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, planID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

// SetDaySlot replaces one day-of-week slot of the weekly template.
func (h *PlanHandler) SetDaySlot(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day of week.")
		return
	}

	var req DaySlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	entries := make([]domain.ExerciseTemplate, 0, len(req.Entries))
	for _, e := range req.Entries {
		exerciseID, err := primitive.ObjectIDFromHex(e.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
			return
		}
		entries = append(entries, domain.ExerciseTemplate{
			ExerciseID:      exerciseID,
			Sets:            e.Sets,
			Reps:            e.Reps,
			Weight:          e.Weight,
			DurationMinutes: e.DurationMinutes,
			Notes:           e.Notes,
		})
	}

	plan, err := h.planService.SetDaySlot(c.Request.Context(), userID, planID, day, entries)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckConflicts reports overlaps between the plan's candidate range and
// other active plans.
func (h *PlanHandler) CheckConflicts(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate, expected yyyy-mm-dd.")
		return
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid endDate, expected yyyy-mm-dd.")
		return
	}

	report, err := h.planService.CheckConflicts(c.Request.Context(), userID, planID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ActivatePlan switches the user's active plan to this one and generates a
// near-term schedule window. Pass ?force=true to activate over conflicts.
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	force := c.Query("force") == "true"

	plan, generation, err := h.planService.SwitchActivePlan(c.Request.Context(), userID, planID, force)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":       mapPlanToResponse(plan),
		"generation": generation,
	})
}

func (h *PlanHandler) DeactivatePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}
	plan, err := h.planService.DeactivatePlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPlanToResponse(plan))
}

func (h *PlanHandler) userAndPlanID(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, planID, true
}
