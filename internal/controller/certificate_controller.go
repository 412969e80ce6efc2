package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Service *service.CertificateService
}

func NewCertificateController(svc *service.CertificateService) *CertificateController {
	return &CertificateController{Service: svc}
}

// @Summary Check certificate eligibility for the authenticated user
// @Tags certificate
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate/eligibility [get]
func (c *CertificateController) CheckEligibility(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	eligible, reason, err := c.Service.CanIssue(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"eligible": eligible, "reason": reason})
}

// @Summary Get the authenticated user's certificate for a course
// @Tags certificate
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) GetMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	cert, err := c.Service.GetByUserAndCourse(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, cert)
}

// @Summary List the authenticated user's certificates
// @Tags certificate
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.Service.ListByUser(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, certs)
}

// @Summary Issue a certificate for a user
// @Tags certificate
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param userId path int true "user id"
// @Success 201 {object} util.Response
// @Router /api/staff/courses/{id}/certificates/{userId} [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	staff := util.GetUserFromContext(ctx)
	if staff == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))
	userID := util.MustParseUint(ctx.Param("userId"))

	cert, reason, err := c.Service.Issue(userID, courseID, staff.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if cert == nil {
		util.Conflict(ctx, reason)
		return
	}

	util.Created(ctx, cert)
}
