package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary Mark a resource as completed
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param resourceId path int true "resource id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/resources/{resourceId}/complete [post]
func (c *ProgressController) MarkResourceComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))
	resourceID := util.MustParseUint(ctx.Param("resourceId"))

	record, err := c.Service.MarkResourceComplete(user.UserID, courseID, resourceID, user.Role)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary Get the authenticated user's progress in a course
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	progress, err := c.Service.GetCourseProgress(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	records, err := c.Service.ListResourceProgress(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"progress": progress, "resources": records})
}

// @Summary Recompute a user's course progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param userId path int true "user id"
// @Success 200 {object} util.Response
// @Router /api/staff/courses/{id}/progress/{userId}/recompute [post]
func (c *ProgressController) Recompute(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))
	userID := util.MustParseUint(ctx.Param("userId"))

	progress, err := c.Service.Recompute(userID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}
