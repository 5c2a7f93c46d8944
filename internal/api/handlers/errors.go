package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/princeprakhar/tours-backend/internal/api/middleware"
	"github.com/princeprakhar/tours-backend/internal/geo"
	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/services"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

// respondError maps service errors onto HTTP statuses. Anything unexpected
// is a 500 and is attached to the gin context for the request logger.
func respondError(c *gin.Context, message string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.SendErrorData(c, http.StatusBadRequest, "Invalid input data", verr, verr.Fields)
	case errors.Is(err, services.ErrTourNotFound), errors.Is(err, services.ErrReviewNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrDuplicateTour), errors.Is(err, services.ErrDuplicateReview):
		utils.SendError(c, http.StatusConflict, message, err)
	case errors.Is(err, services.ErrForbidden):
		utils.SendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrEmptyPatch),
		errors.Is(err, services.ErrInvalidYear),
		errors.Is(err, services.ErrInvalidRadius),
		errors.Is(err, geo.ErrInvalidLatLng),
		errors.Is(err, geo.ErrInvalidUnit):
		utils.SendError(c, http.StatusBadRequest, message, err)
	default:
		_ = c.Error(err)
		utils.SendInternalError(c, "Something went wrong", nil)
	}
}

func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: c.GetString(middleware.ContextUserID),
		Role:   c.GetString(middleware.ContextRole),
	}
}

// shaped renders docs through the request's projection.
func shaped(c *gin.Context, proj query.Projection, docs interface{}) (interface{}, bool) {
	out, err := proj.Shape(docs)
	if err != nil {
		respondError(c, "Failed to render documents", err)
		return nil, false
	}
	return out, true
}
