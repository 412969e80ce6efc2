package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkResourceCompleteUpsert(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	first, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, model.Required, first.Requirement)

	// Marking again reuses the same ledger row.
	second, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&model.ResourceProgress{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkResourceCompleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, model.Student)
	instructor := env.createUser(t, model.Instructor)
	course := env.createCourse(t, false)
	resource := env.addResource(t, course.ID, model.Required)

	_, err := env.progress.MarkResourceComplete(student.ID, course.ID, resource.ID, student.Role)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	// Staff may write without an enrollment.
	_, err = env.progress.MarkResourceComplete(instructor.ID, course.ID, resource.ID, instructor.Role)
	require.NoError(t, err)

	// Resource must belong to the course.
	other := env.createCourse(t, false)
	_, err = env.progress.MarkResourceComplete(student.ID, other.ID, resource.ID, student.Role)
	assert.ErrorIs(t, err, util.ErrResourceNotFound)
}

func TestRecomputeCountsOnlyRequired(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	required1 := env.addResource(t, course.ID, model.Required)
	required2 := env.addResource(t, course.ID, model.Required)
	optional := env.addResource(t, course.ID, model.Optional)
	env.enroll(t, user.ID, course.ID)

	// Completing the optional resource moves nothing.
	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, optional.ID, user.Role)
	require.NoError(t, err)

	progress, err := env.progress.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.RequiredCount)
	assert.Equal(t, 0, progress.CompletedCount)
	assert.Equal(t, 0.0, progress.Percent)
	assert.False(t, progress.Completed)

	_, err = env.progress.MarkResourceComplete(user.ID, course.ID, required1.ID, user.Role)
	require.NoError(t, err)

	progress, err = env.progress.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedCount)
	assert.Equal(t, 50.0, progress.Percent)
	assert.False(t, progress.Completed)

	_, err = env.progress.MarkResourceComplete(user.ID, course.ID, required2.ID, user.Role)
	require.NoError(t, err)

	progress, err = env.progress.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Percent)
	assert.True(t, progress.Completed)
}

func TestRecomputeTierEditIsRetroactive(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	keep := env.addResource(t, course.ID, model.Required)
	demoted := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, keep.ID, user.Role)
	require.NoError(t, err)

	progress, err := env.progress.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress.Percent)

	// Demoting the second resource shrinks the denominator; the user is now
	// complete without any new ledger writes.
	demoted.Requirement = model.Optional
	require.NoError(t, env.courseRepo.UpdateResource(demoted))

	progress, err = env.progress.Recompute(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.RequiredCount)
	assert.Equal(t, 100.0, progress.Percent)
	assert.True(t, progress.Completed)
}

func TestRecomputeIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	resource := env.addResource(t, course.ID, model.Required)
	env.enroll(t, user.ID, course.ID)

	_, err := env.progress.MarkResourceComplete(user.ID, course.ID, resource.ID, user.Role)
	require.NoError(t, err)

	first, err := env.progress.Recompute(user.ID, course.ID)
	require.NoError(t, err)
	second, err := env.progress.Recompute(user.ID, course.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Percent, second.Percent)
	assert.Equal(t, first.Completed, second.Completed)

	// Completion events are emitted only on the transition.
	var events int64
	require.NoError(t, env.db.Model(&model.OutboxEvent{}).
		Where("topic = ?", model.TopicCourseCompleted).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestRecomputeZeroRequiredResources(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, model.Student)
	course := env.createCourse(t, false)
	env.addResource(t, course.ID, model.Optional)
	env.enroll(t, user.ID, course.ID)

	progress, err := env.progress.Recompute(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.RequiredCount)
	assert.Equal(t, 0.0, progress.Percent)
	assert.False(t, progress.Completed)
}
