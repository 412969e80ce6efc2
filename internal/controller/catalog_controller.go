package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(svc *service.CatalogService) *CatalogController {
	return &CatalogController{Service: svc}
}

// @Summary Create a course
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseReq true "course data"
// @Success 201 {object} util.Response
// @Router /api/staff/courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Service.CreateCourse(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary Update a course
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.CourseReq true "course data"
// @Success 200 {object} util.Response
// @Router /api/staff/courses/{id} [put]
func (c *CatalogController) UpdateCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Service.UpdateCourse(courseID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary List courses
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.Service.ListCourses(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": courses, "total": total})
}

// @Summary Get a course with its sections and resources
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CatalogController) GetCourseDetail(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	detail, err := c.Service.GetCourseDetail(ctx.Request.Context(), courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary Create a section
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.SectionReq true "section data"
// @Success 201 {object} util.Response
// @Router /api/staff/courses/{id}/sections [post]
func (c *CatalogController) CreateSection(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.SectionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.Service.CreateSection(courseID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, section)
}

// @Summary Create a resource
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.ResourceReq true "resource data"
// @Success 201 {object} util.Response
// @Router /api/staff/courses/{id}/resources [post]
func (c *CatalogController) CreateResource(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.ResourceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.Service.CreateResource(user.UserID, courseID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, resource)
}

// @Summary Update a resource
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "resource id"
// @Param body body service.ResourceReq true "resource data"
// @Success 200 {object} util.Response
// @Router /api/staff/resources/{id} [put]
func (c *CatalogController) UpdateResource(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))

	var req service.ResourceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resource, err := c.Service.UpdateResource(resourceID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, resource)
}

// @Summary Upload a resource file
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "resource id"
// @Param file formData file true "file"
// @Success 200 {object} util.Response
// @Router /api/staff/resources/{id}/file [post]
func (c *CatalogController) UploadResourceFile(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	resource, err := c.Service.UploadResourceFile(ctx.Request.Context(), resourceID, file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, resource)
}
