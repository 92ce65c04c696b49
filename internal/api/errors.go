package api

import (
	"errors"
	"net/http"
	"time"

	"fitcal/workout-planner/internal/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Week restriction gets 422 so the UI can distinguish "bad request shape"
// from "valid request, rejected by the week rule".
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr  *service.ValidationError
		weekErr        *service.WeekRestrictionError
		notFoundErr    *service.NotFoundError
		conflictErr    *service.ConflictError
		persistenceErr *service.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		abortWithError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &weekErr):
		abortWithError(c, http.StatusUnprocessableEntity, weekErr.Error())
	case errors.As(err, &notFoundErr):
		abortWithError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     conflictErr.Error(),
			"conflicts": conflictErr.Report.Conflicts,
		})
	case errors.As(err, &persistenceErr):
		abortWithError(c, http.StatusInternalServerError, "Storage operation failed.")
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error.")
	}
}

// parseDate parses a yyyy-mm-dd value from a query or JSON field.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
