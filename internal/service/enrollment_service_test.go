package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)

	first, err := env.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, first.Status)

	second, err := env.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A cancelled enrollment is reactivated, not duplicated.
	require.NoError(t, env.db.Model(&model.Enrollment{}).
		Where("id = ?", first.ID).Update("status", model.EnrollmentCancelled).Error)

	third, err := env.enrollment.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, model.EnrollmentActive, third.Status)
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)

	course := &model.Course{Title: "Draft", Published: false}
	require.NoError(t, env.db.Create(course).Error)

	_, err := env.enrollment.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotPublished)

	_, err = env.enrollment.Enroll(user.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
