package service

import (
	"context"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const courseCacheTTL = 5 * time.Minute

// CatalogService manages courses, sections and resources, plus resource file
// uploads. Course detail reads go through a redis cache when one is
// configured; every catalog write invalidates the course's entry.
type CatalogService struct {
	CourseRepo *repository.CourseRepository
	StorageSvc *StorageService
	Redis      *redis.Client
}

func NewCatalogService(courseRepo *repository.CourseRepository, storageSvc *StorageService, rdb *redis.Client) *CatalogService {
	return &CatalogService{CourseRepo: courseRepo, StorageSvc: storageSvc, Redis: rdb}
}

type CourseReq struct {
	Title               *string `json:"title"`
	Description         *string `json:"description"`
	Published           *bool   `json:"published"`
	CertificateEnabled  *bool   `json:"certificateEnabled"`
	CertificateTemplate *string `json:"certificateTemplate"`
}

type CourseDetail struct {
	Course    model.Course     `json:"course"`
	Sections  []model.Section  `json:"sections"`
	Resources []model.Resource `json:"resources"`
}

func (s *CatalogService) CreateCourse(creatorID uint, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	course := &model.Course{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Published != nil {
		course.Published = *req.Published
	}
	if req.CertificateEnabled != nil {
		course.CertificateEnabled = *req.CertificateEnabled
	}
	if req.CertificateTemplate != nil {
		course.CertificateTemplate = *req.CertificateTemplate
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CatalogService) UpdateCourse(courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Published != nil {
		course.Published = *req.Published
	}
	if req.CertificateEnabled != nil {
		course.CertificateEnabled = *req.CertificateEnabled
	}
	if req.CertificateTemplate != nil {
		course.CertificateTemplate = *req.CertificateTemplate
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCourse(courseID)
	return course, nil
}

func (s *CatalogService) ListCourses(page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit)
}

// GetCourseDetail returns the course with its sections and resources,
// served from cache when possible.
func (s *CatalogService) GetCourseDetail(ctx context.Context, courseID uint) (*CourseDetail, error) {
	key := courseCacheKey(courseID)
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var detail CourseDetail
			if err := json.Unmarshal([]byte(cached), &detail); err == nil {
				return &detail, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("course cache read failed", zap.Uint("courseId", courseID), zap.Error(err))
		}
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	sections, err := s.CourseRepo.ListSections(courseID)
	if err != nil {
		return nil, err
	}
	resources, err := s.CourseRepo.ListResources(courseID)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{Course: *course, Sections: sections, Resources: resources}

	if s.Redis != nil {
		if data, err := json.Marshal(detail); err == nil {
			if err := s.Redis.Set(ctx, key, data, courseCacheTTL).Err(); err != nil {
				logger.Log.Warn("course cache write failed", zap.Uint("courseId", courseID), zap.Error(err))
			}
		}
	}

	return detail, nil
}

func courseCacheKey(courseID uint) string {
	return fmt.Sprintf("course:detail:%d", courseID)
}

func (s *CatalogService) invalidateCourse(courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), courseCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("course cache invalidation failed", zap.Uint("courseId", courseID), zap.Error(err))
	}
}

type SectionReq struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

func (s *CatalogService) CreateSection(courseID uint, req SectionReq) (*model.Section, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}
	section := &model.Section{
		CourseID: courseID,
		Title:    req.Title,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreateSection(section); err != nil {
		return nil, err
	}
	s.invalidateCourse(courseID)
	return section, nil
}

type ResourceReq struct {
	SectionID   *uint                      `json:"sectionId"`
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Type        *model.ResourceType        `json:"type"`
	Requirement *model.ResourceRequirement `json:"requirement"`
	Order       *int                       `json:"order"`
	URL         *string                    `json:"url"`
}

func validResourceType(t model.ResourceType) bool {
	return t == model.Document || t == model.Video || t == model.LiveSession
}

func validRequirement(r model.ResourceRequirement) bool {
	return r == model.Required || r == model.Optional || r == model.Alternative
}

func (s *CatalogService) CreateResource(uploaderID, courseID uint, req ResourceReq) (*model.Resource, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.Type == nil || !validResourceType(*req.Type) {
		return nil, fmt.Errorf("invalid resource type")
	}

	resource := &model.Resource{
		CourseID:    courseID,
		Title:       *req.Title,
		Type:        *req.Type,
		Requirement: model.Required,
		UploaderID:  uploaderID,
	}
	if req.SectionID != nil {
		resource.SectionID = *req.SectionID
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.Requirement != nil {
		if !validRequirement(*req.Requirement) {
			return nil, fmt.Errorf("invalid requirement tier")
		}
		resource.Requirement = *req.Requirement
	}
	if req.Order != nil {
		resource.Order = *req.Order
	}
	if req.URL != nil {
		resource.URL = *req.URL
	}

	if err := s.CourseRepo.CreateResource(resource); err != nil {
		return nil, err
	}

	if resource.Type == model.LiveSession {
		payload := map[string]interface{}{
			"resourceId": resource.ID,
			"courseId":   courseID,
			"title":      resource.Title,
		}
		if err := EmitEventTx(s.CourseRepo.DB, model.TopicLiveSessionPlanned, payload); err != nil {
			logger.Log.Error("emitting live session event failed", zap.Uint("resourceId", resource.ID), zap.Error(err))
		}
	}

	s.invalidateCourse(courseID)
	return resource, nil
}

// UpdateResource patches resource fields. Changing the requirement tier takes
// effect on the next progress recompute for every enrolled user.
func (s *CatalogService) UpdateResource(resourceID uint, req ResourceReq) (*model.Resource, error) {
	resource, err := s.CourseRepo.FindResourceByID(resourceID)
	if err != nil {
		return nil, util.ErrResourceNotFound
	}

	if req.SectionID != nil {
		resource.SectionID = *req.SectionID
	}
	if req.Title != nil {
		resource.Title = *req.Title
	}
	if req.Description != nil {
		resource.Description = *req.Description
	}
	if req.Type != nil {
		if !validResourceType(*req.Type) {
			return nil, fmt.Errorf("invalid resource type")
		}
		resource.Type = *req.Type
	}
	if req.Requirement != nil {
		if !validRequirement(*req.Requirement) {
			return nil, fmt.Errorf("invalid requirement tier")
		}
		resource.Requirement = *req.Requirement
	}
	if req.Order != nil {
		resource.Order = *req.Order
	}
	if req.URL != nil {
		resource.URL = *req.URL
	}

	if err := s.CourseRepo.UpdateResource(resource); err != nil {
		return nil, err
	}
	s.invalidateCourse(resource.CourseID)
	return resource, nil
}

// UploadResourceFile stores the uploaded file and, for videos, probes it for
// duration and format and generates a thumbnail.
func (s *CatalogService) UploadResourceFile(ctx context.Context, resourceID uint, file *multipart.FileHeader) (*model.Resource, error) {
	resource, err := s.CourseRepo.FindResourceByID(resourceID)
	if err != nil {
		return nil, util.ErrResourceNotFound
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeImage, util.MimePDF, util.MimeOctetStream, "text/"})
	src.Close()
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if util.IsVideo(mimeType) {
		allowed := false
		for _, e := range util.AllowedVideoExtensions {
			if e == ext {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, util.ErrInvalidVideoExt
		}
	}

	filename := fmt.Sprintf("resources/%d/%s%s", resourceID, util.GenerateRandomString(16), ext)

	// Spool to a temp file so videos can be probed before upload.
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	src, err = file.Open()
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if _, err := tmp.ReadFrom(src); err != nil {
		src.Close()
		tmp.Close()
		return nil, err
	}
	src.Close()
	tmp.Close()

	if util.IsVideo(mimeType) {
		info, err := util.GetVideoInfo(tmpPath)
		if err != nil {
			logger.Log.Warn("probing uploaded video failed", zap.Uint("resourceId", resourceID), zap.Error(err))
		} else {
			resource.Duration = info.Duration
			resource.Format = info.Format
		}

		thumbPath := tmpPath + ".jpg"
		if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err == nil {
			thumbName := fmt.Sprintf("resources/%d/thumb_%s.jpg", resourceID, util.GenerateRandomString(8))
			if url, err := s.StorageSvc.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err == nil {
				resource.Thumbnail = url
			}
			os.Remove(thumbPath)
		}
	}

	url, err := s.StorageSvc.UploadFile(ctx, filename, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	resource.URL = url
	resource.Size = file.Size

	if err := s.CourseRepo.UpdateResource(resource); err != nil {
		return nil, err
	}
	s.invalidateCourse(resource.CourseID)
	return resource, nil
}
