package controller

import (
	"course_platform_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP statuses. Anything unmapped is a
// logged 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrResourceNotFound),
		errors.Is(err, util.ErrEvaluationNotFound),
		errors.Is(err, util.ErrReopenNotFound),
		errors.Is(err, util.ErrCertificateNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrEvaluationClosed),
		errors.Is(err, util.ErrNoAttemptsRemaining),
		errors.Is(err, util.ErrReopenPending),
		errors.Is(err, util.ErrReopenResolved),
		errors.Is(err, util.ErrAttemptsNotExhausted),
		errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrMalformedAnswer),
		errors.Is(err, util.ErrJustificationRequired),
		errors.Is(err, util.ErrCourseNotPublished),
		errors.Is(err, util.ErrInvalidVideoExt):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUnauthorized):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
