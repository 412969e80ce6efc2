package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary Submit an evaluation attempt
// @Tags attempt
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Param body body service.SubmitAttemptReq true "answers keyed by question id"
// @Success 201 {object} util.Response
// @Router /api/evaluations/{id}/attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	evaluationID := util.MustParseUint(ctx.Param("id"))

	var req service.SubmitAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.SubmitAttempt(user.UserID, evaluationID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

// @Summary List the authenticated user's attempts for an evaluation
// @Tags attempt
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Success 200 {object} util.Response
// @Router /api/evaluations/{id}/attempts [get]
func (c *AttemptController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	evaluationID := util.MustParseUint(ctx.Param("id"))

	attempts, err := c.Service.ListAttempts(user.UserID, evaluationID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
