package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvalService    *service.EvaluationService
	AttemptService *service.AttemptService
}

func NewEvaluationController(evalSvc *service.EvaluationService, attemptSvc *service.AttemptService) *EvaluationController {
	return &EvaluationController{EvalService: evalSvc, AttemptService: attemptSvc}
}

// @Summary Create an evaluation for a course
// @Tags evaluation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.EvaluationReq true "evaluation data"
// @Success 201 {object} util.Response
// @Router /api/staff/courses/{id}/evaluations [post]
func (c *EvaluationController) CreateEvaluation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.EvaluationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	evaluation, err := c.EvalService.CreateEvaluation(user.UserID, courseID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, evaluation)
}

// @Summary Update an evaluation
// @Tags evaluation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Param body body service.EvaluationReq true "evaluation data"
// @Success 200 {object} util.Response
// @Router /api/staff/evaluations/{id} [put]
func (c *EvaluationController) UpdateEvaluation(ctx *gin.Context) {
	evaluationID := util.MustParseUint(ctx.Param("id"))

	var req service.EvaluationReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	evaluation, err := c.EvalService.UpdateEvaluation(evaluationID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, evaluation)
}

// @Summary Get an evaluation with questions and answer keys
// @Tags evaluation
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Success 200 {object} util.Response
// @Router /api/staff/evaluations/{id} [get]
func (c *EvaluationController) GetEvaluation(ctx *gin.Context) {
	evaluationID := util.MustParseUint(ctx.Param("id"))

	evaluation, questions, options, err := c.EvalService.GetEvaluation(evaluationID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"evaluation": evaluation, "questions": questions, "options": options})
}

// @Summary Get an evaluation for taking, answer keys stripped
// @Tags evaluation
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Success 200 {object} util.Response
// @Router /api/evaluations/{id} [get]
func (c *EvaluationController) GetForStudent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	evaluationID := util.MustParseUint(ctx.Param("id"))

	evaluation, questions, err := c.EvalService.GetForStudent(evaluationID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	remaining, err := c.AttemptService.RemainingAttempts(user.UserID, evaluation)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"evaluation":        evaluation,
		"questions":         questions,
		"remainingAttempts": remaining,
	})
}

// @Summary List a course's evaluations
// @Tags evaluation
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/evaluations [get]
func (c *EvaluationController) ListByCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	evaluations, err := c.EvalService.ListByCourse(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, evaluations)
}
