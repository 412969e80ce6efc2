package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db *gorm.DB

	courseRepo  *repository.CourseRepository
	enrollRepo  *repository.EnrollmentRepository
	evalRepo    *repository.EvaluationRepository
	attemptRepo *repository.AttemptRepository
	reopenRepo  *repository.ReopenRepository

	catalog     *CatalogService
	enrollment  *EnrollmentService
	evaluation  *EvaluationService
	attempt     *AttemptService
	reopen      *ReopenService
	progress    *ProgressService
	certificate *CertificateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	courseRepo := repository.NewCourseRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	reopenRepo := repository.NewReopenRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	certRepo := repository.NewCertificationRepository(db)

	storage := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}})

	certificate := NewCertificateService(courseRepo, evalRepo, attemptRepo, certRepo, db)
	progress := NewProgressService(courseRepo, enrollRepo, progressRepo, certificate, db)

	return &testEnv{
		db:          db,
		courseRepo:  courseRepo,
		enrollRepo:  enrollRepo,
		evalRepo:    evalRepo,
		attemptRepo: attemptRepo,
		reopenRepo:  reopenRepo,
		catalog:     NewCatalogService(courseRepo, storage, nil),
		enrollment:  NewEnrollmentService(enrollRepo, courseRepo),
		evaluation:  NewEvaluationService(evalRepo, courseRepo, db),
		attempt:     NewAttemptService(evalRepo, attemptRepo, enrollRepo, progress, db),
		reopen:      NewReopenService(evalRepo, attemptRepo, reopenRepo),
		progress:    progress,
		certificate: certificate,
	}
}

func (e *testEnv) createUser(t *testing.T, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "user-" + model.GenerateUUID()[:8],
		Email:    model.GenerateUUID()[:8] + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCourse(t *testing.T, certEnabled bool) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:              "Intro to Go",
		Published:          true,
		CertificateEnabled: certEnabled,
		CreatorID:          1,
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}

func (e *testEnv) addResource(t *testing.T, courseID uint, tier model.ResourceRequirement) *model.Resource {
	t.Helper()
	resource := &model.Resource{
		CourseID:    courseID,
		Title:       "Resource",
		Type:        model.Document,
		Requirement: tier,
	}
	require.NoError(t, e.db.Create(resource).Error)
	return resource
}

func (e *testEnv) enroll(t *testing.T, userID, courseID uint) {
	t.Helper()
	_, err := e.enrollment.Enroll(userID, courseID)
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

// createBooleanEvaluation builds a one-question true/false evaluation and
// returns it with the ids of its correct and wrong options.
func (e *testEnv) createBooleanEvaluation(t *testing.T, courseID uint, passingScore float64, maxAttempts int) (*model.Evaluation, uint, uint) {
	t.Helper()
	evaluation, err := e.evaluation.CreateEvaluation(1, courseID, EvaluationReq{
		Title:        ptr("Checkpoint"),
		PassingScore: ptr(passingScore),
		MaxAttempts:  ptr(maxAttempts),
		Questions: ptr([]QuestionReq{
			{
				Type:   model.Boolean,
				Prompt: "Go has generics",
				Options: []QuestionOptionReq{
					{Text: "true", IsCorrect: true},
					{Text: "false"},
				},
			},
		}),
	})
	require.NoError(t, err)

	questions, err := e.evalRepo.ListQuestions(evaluation.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	options, err := e.evalRepo.ListOptions([]uint{questions[0].ID})
	require.NoError(t, err)
	require.Len(t, options, 2)

	var correct, wrong uint
	for _, opt := range options {
		if opt.IsCorrect {
			correct = opt.ID
		} else {
			wrong = opt.ID
		}
	}
	return evaluation, correct, wrong
}

func uintKey(id uint) string { return fmt.Sprintf("%d", id) }

func answersFor(questionID uint, optionID uint) map[string]AnswerReq {
	return map[string]AnswerReq{
		uintKey(questionID): {OptionID: &optionID},
	}
}
