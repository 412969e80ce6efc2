package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/pkg/logger"
	"encoding/json"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmitEventTx writes an outbox event inside the caller's transaction, so the
// event exists iff the state transition it describes committed.
func EmitEventTx(tx *gorm.DB, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&model.OutboxEvent{Topic: topic, Payload: data}).Error
}

// OutboxService drains undispatched events on a cron schedule and hands them
// to the configured publisher. The core never blocks on dispatch.
type OutboxService struct {
	Repo *repository.OutboxRepository

	// Publish delivers one event to external consumers (calendar sync,
	// notifications). The default publisher only logs the hand-off.
	Publish func(event model.OutboxEvent) error

	cron *cron.Cron
}

func NewOutboxService(repo *repository.OutboxRepository) *OutboxService {
	s := &OutboxService{Repo: repo}
	s.Publish = func(event model.OutboxEvent) error {
		logger.Log.Info("outbox event dispatched",
			zap.Uint("id", event.ID),
			zap.String("topic", event.Topic))
		return nil
	}
	return s
}

func (s *OutboxService) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.DispatchPending); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *OutboxService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// DispatchPending delivers a batch of undispatched events. Events whose
// publish fails stay in the outbox and are retried on the next tick.
func (s *OutboxService) DispatchPending() {
	events, err := s.Repo.ListUndispatched(100)
	if err != nil {
		logger.Log.Error("listing outbox events failed", zap.Error(err))
		return
	}

	dispatched := make([]uint, 0, len(events))
	for _, event := range events {
		if err := s.Publish(event); err != nil {
			logger.Log.Error("publishing outbox event failed",
				zap.Uint("id", event.ID), zap.Error(err))
			continue
		}
		dispatched = append(dispatched, event.ID)
	}

	if err := s.Repo.MarkDispatched(dispatched); err != nil {
		logger.Log.Error("marking outbox events dispatched failed", zap.Error(err))
	}
}
