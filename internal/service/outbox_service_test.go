package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxDispatchPending(t *testing.T) {
	db := newTestDB(t)
	outbox := NewOutboxService(repository.NewOutboxRepository(db))

	require.NoError(t, EmitEventTx(db, model.TopicCourseCompleted, map[string]uint{"userId": 1, "courseId": 2}))
	require.NoError(t, EmitEventTx(db, model.TopicCertificateIssued, map[string]uint{"userId": 1, "courseId": 2}))

	var published []string
	outbox.Publish = func(event model.OutboxEvent) error {
		published = append(published, event.Topic)
		return nil
	}

	outbox.DispatchPending()
	assert.Equal(t, []string{model.TopicCourseCompleted, model.TopicCertificateIssued}, published)

	// Everything is marked dispatched; a second drain is a no-op.
	published = nil
	outbox.DispatchPending()
	assert.Empty(t, published)
}

func TestOutboxRetriesFailedPublish(t *testing.T) {
	db := newTestDB(t)
	outbox := NewOutboxService(repository.NewOutboxRepository(db))

	require.NoError(t, EmitEventTx(db, model.TopicCourseCompleted, map[string]uint{"userId": 1}))

	calls := 0
	outbox.Publish = func(event model.OutboxEvent) error {
		calls++
		if calls == 1 {
			return errors.New("broker unavailable")
		}
		return nil
	}

	// First drain fails, the event stays pending.
	outbox.DispatchPending()
	// Second drain succeeds.
	outbox.DispatchPending()
	assert.Equal(t, 2, calls)

	// Third drain has nothing left.
	outbox.DispatchPending()
	assert.Equal(t, 2, calls)
}
