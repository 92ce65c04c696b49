package api

import (
	"net/http"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler holds the schedule and reschedule service dependencies.
type ScheduleHandler struct {
	scheduleService   service.ScheduleService
	rescheduleService service.RescheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService, rescheduleService service.RescheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService:   scheduleService,
		rescheduleService: rescheduleService,
	}
}

// --- DTOs ---

type ManualExerciseRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	Date       string  `json:"date" binding:"required,datetime=2006-01-02"`
	Sets       int     `json:"sets" binding:"min=0"`
	Reps       int     `json:"reps" binding:"min=0"`
	Weight     float64 `json:"weight"`
	Notes      string  `json:"notes"`
}

type GenerateScheduleRequest struct {
	StartDate       string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string `json:"endDate" binding:"required,datetime=2006-01-02"`
	ReplaceExisting bool   `json:"replaceExisting"`
}

// RescheduleRequest moves a persisted calendar occurrence to a new date
// within the same week.
type RescheduleRequest struct {
	NewDate string `json:"newDate" binding:"required,datetime=2006-01-02"`
	Scope   string `json:"scope" binding:"required,oneof=this-week whole-plan"`
}

// RescheduleOccurrenceRequest moves a projected (not yet persisted) template
// occurrence. The occurrence is addressed by plan, day slot and order index.
type RescheduleOccurrenceRequest struct {
	PlanID     string `json:"planId" binding:"required"`
	DayOfWeek  int    `json:"dayOfWeek" binding:"min=0,max=6"`
	OrderIndex int    `json:"orderIndex" binding:"min=0"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	NewDate    string `json:"newDate" binding:"required,datetime=2006-01-02"`
	Scope      string `json:"scope" binding:"required,oneof=this-week whole-plan"`
}

// ScheduledExerciseResponse is the DTO for a calendar occurrence.
type ScheduledExerciseResponse struct {
	ID            string     `json:"id"`
	ExerciseID    string     `json:"exerciseId"`
	CategoryID    string     `json:"categoryId"`
	WorkoutPlanID *string    `json:"workoutPlanId,omitempty"`
	Date          string     `json:"date"`
	Sets          int        `json:"sets"`
	Reps          int        `json:"reps"`
	Weight        float64    `json:"weight"`
	Notes         string     `json:"notes,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Manual        bool       `json:"manual"`
}

func mapScheduledExerciseToResponse(se *domain.ScheduledExercise) ScheduledExerciseResponse {
	resp := ScheduledExerciseResponse{
		ID:          se.ID.Hex(),
		ExerciseID:  se.ExerciseID.Hex(),
		CategoryID:  se.CategoryID.Hex(),
		Date:        se.Date.Format(dateLayout),
		Sets:        se.Sets,
		Reps:        se.Reps,
		Weight:      se.Weight,
		Notes:       se.Notes,
		Completed:   se.Completed,
		CompletedAt: se.CompletedAt,
		Manual:      se.IsManual(),
	}
	if se.WorkoutPlanID != nil {
		planID := se.WorkoutPlanID.Hex()
		resp.WorkoutPlanID = &planID
	}
	return resp
}

// --- Handler Methods ---

// GetSchedule lists occurrences in a date range (inclusive).
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
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

	instances, err := h.scheduleService.GetByDateRange(c.Request.Context(), userID, start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]ScheduledExerciseResponse, len(instances))
	for i := range instances {
		responses[i] = mapScheduledExerciseToResponse(&instances[i])
	}
	c.JSON(http.StatusOK, responses)
}

// AddManualExercise puts a one-off exercise on the calendar, outside any plan.
func (h *ScheduleHandler) AddManualExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req ManualExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected yyyy-mm-dd.")
		return
	}

	instance, err := h.scheduleService.AddManual(
		c.Request.Context(), userID, exerciseID, date, req.Sets, req.Reps, req.Weight, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapScheduledExerciseToResponse(instance))
}

// GenerateSchedule materializes the user's active plan into the given range.
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate, expected yyyy-mm-dd.")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid endDate, expected yyyy-mm-dd.")
		return
	}

	result, err := h.scheduleService.GenerateForActivePlan(c.Request.Context(), userID, start, end, req.ReplaceExisting)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RescheduleInstance moves a persisted occurrence to a new date in the same week.
func (h *ScheduleHandler) RescheduleInstance(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid scheduled exercise ID format.")
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	newDate, err := parseDate(req.NewDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid newDate, expected yyyy-mm-dd.")
		return
	}

	instance, err := h.rescheduleService.Reschedule(
		c.Request.Context(), userID, domain.PersistedRef{ID: instanceID}, newDate, domain.RescheduleScope(req.Scope))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapScheduledExerciseToResponse(instance))
}

// RescheduleOccurrence moves a projected template occurrence, materializing it
// at the new date.
func (h *ScheduleHandler) RescheduleOccurrence(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	var req RescheduleOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected yyyy-mm-dd.")
		return
	}
	newDate, err := parseDate(req.NewDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid newDate, expected yyyy-mm-dd.")
		return
	}

	ref := domain.ProjectedRef{
		PlanID:     planID,
		DayOfWeek:  req.DayOfWeek,
		OrderIndex: req.OrderIndex,
		Date:       date,
	}
	instance, err := h.rescheduleService.Reschedule(
		c.Request.Context(), userID, ref, newDate, domain.RescheduleScope(req.Scope))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapScheduledExerciseToResponse(instance))
}

// ToggleCompletion flips an occurrence's completed state.
func (h *ScheduleHandler) ToggleCompletion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid scheduled exercise ID format.")
		return
	}

	instance, err := h.scheduleService.ToggleCompletion(c.Request.Context(), userID, instanceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapScheduledExerciseToResponse(instance))
}

// DeleteInstance removes one occurrence from the calendar.
func (h *ScheduleHandler) DeleteInstance(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	instanceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid scheduled exercise ID format.")
		return
	}
	if err := h.scheduleService.Delete(c.Request.Context(), userID, instanceID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearDate removes every occurrence on a single date.
func (h *ScheduleHandler) ClearDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected yyyy-mm-dd.")
		return
	}

	deleted, err := h.scheduleService.ClearDate(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
