package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Service *service.EnrollmentService
}

func NewEnrollmentController(svc *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Service: svc}
}

// @Summary Enroll in a course
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	enrollment, err := c.Service.Enroll(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary List the authenticated user's enrollments
// @Tags enrollment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Service.ListByUser(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}
