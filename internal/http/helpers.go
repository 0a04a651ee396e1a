package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the standard error payload for all API errors. Errors
// is only present for validation failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors,omitempty"`
}

// MessageResponse is the confirmation payload for deletes and logout.
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Error Response Helpers ---

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: resource + " not found"})
}

// respondUnprocessable sends a 422 for requests whose body could not be
// decoded at all.
func respondUnprocessable(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: message})
}

// respondValidationError sends a 422 carrying the per-field violations.
func respondValidationError(c *gin.Context, verr *validation.Error) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Message: "The given data was invalid.",
		Errors:  verr.Errors,
	})
}

// respondConflict sends a 409 for constraint breaches that slipped past
// validation. These indicate a server-side race, not a caller mistake.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Message: message})
}

// respondInternalError logs the error and sends a 500 response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}

// respondStoreError maps repository errors onto the API taxonomy:
// missing row → 404, duplicate key or broken reference → 409,
// anything else → 500.
func respondStoreError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondConflict(c, resource+" violates a uniqueness constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		respondConflict(c, resource+" references a missing record")
	default:
		respondInternalError(c, err, resource)
	}
}

// respondRuleError splits a validation outcome into 422 for rule
// violations and 500 for lookup failures underneath the rules.
func respondRuleError(c *gin.Context, err error, context string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondValidationError(c, verr)
		return
	}
	respondInternalError(c, err, context)
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondDeleted sends the delete confirmation payload.
func respondDeleted(c *gin.Context, resource string) {
	c.JSON(http.StatusOK, MessageResponse{Message: resource + " deleted successfully"})
}

// --- Parameter Parsing ---

// parseIDParam extracts a numeric id from the URL. A malformed id cannot
// name any row, so it is reported as 404 for the resource, same as an
// absent one.
func parseIDParam(c *gin.Context, resource string) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondNotFound(c, resource)
		return 0, false
	}
	return uint(id), true
}
