package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReopenController struct {
	Service *service.ReopenService
}

func NewReopenController(svc *service.ReopenService) *ReopenController {
	return &ReopenController{Service: svc}
}

type ReopenReq struct {
	Justification string `json:"justification" binding:"required"`
}

// @Summary Request a reopen of an exhausted evaluation
// @Tags reopen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "evaluation id"
// @Param body body ReopenReq true "justification"
// @Success 201 {object} util.Response
// @Router /api/evaluations/{id}/reopen-requests [post]
func (c *ReopenController) Request(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	evaluationID := util.MustParseUint(ctx.Param("id"))

	var req ReopenReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.Service.Request(user.UserID, evaluationID, req.Justification)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, request)
}

type ReviewReq struct {
	ExtraAttempts int `json:"extraAttempts"`
}

// @Summary Approve a reopen request
// @Tags reopen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Param body body ReviewReq false "extra attempts to grant, default 1"
// @Success 200 {object} util.Response
// @Router /api/staff/reopen-requests/{id}/approve [post]
func (c *ReopenController) Approve(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	requestID := util.MustParseUint(ctx.Param("id"))

	var req ReviewReq
	_ = ctx.ShouldBindJSON(&req)

	request, err := c.Service.Approve(user.UserID, requestID, req.ExtraAttempts)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, request)
}

// @Summary Deny a reopen request
// @Tags reopen
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Success 200 {object} util.Response
// @Router /api/staff/reopen-requests/{id}/deny [post]
func (c *ReopenController) Deny(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	requestID := util.MustParseUint(ctx.Param("id"))

	request, err := c.Service.Deny(user.UserID, requestID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, request)
}

// @Summary List pending reopen requests
// @Tags reopen
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/staff/reopen-requests [get]
func (c *ReopenController) ListPending(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	requests, total, err := c.Service.ListPending(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": requests, "total": total})
}
