package api

import (
	"net/http"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router. All routes live under
// /api/v1; everything except auth requires a valid JWT, and library writes
// (exercises, categories, catalog snapshots) are admin-only.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	categoryService service.CategoryService,
	exerciseService service.ExerciseService,
	catalogService service.CatalogService,
	planService service.PlanService,
	scheduleService service.ScheduleService,
	rescheduleService service.RescheduleService,
	settingsService service.SettingsService,
) {
	authHandler := NewAuthHandler(authService)
	categoryHandler := NewCategoryHandler(categoryService)
	exerciseHandler := NewExerciseHandler(exerciseService, catalogService)
	planHandler := NewPlanHandler(planService)
	scheduleHandler := NewScheduleHandler(scheduleService, rescheduleService)
	settingsHandler := NewSettingsHandler(settingsService)

	authMiddleware := AuthMiddleware(jwtSecret)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := c.Get(ContextUserRoleKey)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Category Routes (shared library; writes are admin-only) ---
		categoryGroup := protected.Group("/categories")
		{
			categoryGroup.GET("", categoryHandler.GetCategories)
			categoryGroup.POST("", adminOnly, categoryHandler.CreateCategory)
			categoryGroup.PUT("/:id", adminOnly, categoryHandler.UpdateCategory)
			categoryGroup.DELETE("/:id", adminOnly, categoryHandler.DeleteCategory)
		}

		// --- Exercise Library Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExerciseByID)
			exerciseGroup.POST("", adminOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:id", adminOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", adminOnly, exerciseHandler.DeleteExercise)

			// Catalog snapshots (export/import via object storage)
			exerciseGroup.POST("/catalog/export", adminOnly, exerciseHandler.ExportCatalog)
			exerciseGroup.POST("/catalog/import", adminOnly, exerciseHandler.ImportCatalog)
		}

		// --- Workout Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.GetPlans)
			planGroup.GET("/:id", planHandler.GetPlanByID)
			planGroup.PUT("/:id", planHandler.UpdatePlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
			planGroup.PUT("/:id/days/:day", planHandler.SetDaySlot)
			planGroup.GET("/:id/conflicts", planHandler.CheckConflicts)
			planGroup.POST("/:id/activate", planHandler.ActivatePlan)
			planGroup.POST("/:id/deactivate", planHandler.DeactivatePlan)
		}

		// --- Schedule Routes (the calendar) ---
		scheduleGroup := protected.Group("/schedule")
		{
			scheduleGroup.GET("", scheduleHandler.GetSchedule)
			scheduleGroup.POST("", scheduleHandler.AddManualExercise)
			scheduleGroup.POST("/generate", scheduleHandler.GenerateSchedule)
			scheduleGroup.DELETE("", scheduleHandler.ClearDate)
			scheduleGroup.POST("/occurrences/reschedule", scheduleHandler.RescheduleOccurrence)
			scheduleGroup.POST("/:id/reschedule", scheduleHandler.RescheduleInstance)
			scheduleGroup.POST("/:id/toggle-completion", scheduleHandler.ToggleCompletion)
			scheduleGroup.DELETE("/:id", scheduleHandler.DeleteInstance)
		}

		// --- Settings Routes ---
		settingsGroup := protected.Group("/settings")
		{
			settingsGroup.GET("/timers", settingsHandler.GetTimerStrategies)
			settingsGroup.POST("/timers", settingsHandler.CreateTimerStrategy)
			settingsGroup.PUT("/timers/:id", settingsHandler.UpdateTimerStrategy)
			settingsGroup.DELETE("/timers/:id", settingsHandler.DeleteTimerStrategy)

			settingsGroup.GET("/plates", settingsHandler.GetWeightPlates)
			settingsGroup.POST("/plates", settingsHandler.CreateWeightPlate)
			settingsGroup.PUT("/plates/:id", settingsHandler.UpdateWeightPlate)
			settingsGroup.DELETE("/plates/:id", settingsHandler.DeleteWeightPlate)
		}
	}
}
