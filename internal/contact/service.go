package contact

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service records every message in the outbox before handing it to the
// delivery backend, then records the outcome.
type Service struct {
	store  *Store
	sender Sender
	log    *zap.Logger
}

func NewService(store *Store, sender Sender, log *zap.Logger) *Service {
	return &Service{store: store, sender: sender, log: log.Named("contact")}
}

func (s *Service) Send(ctx context.Context, m Message) error {
	if err := s.store.Save(ctx, m); err != nil {
		return err
	}

	sendErr := s.sender.Send(ctx, m)

	// The outcome is recorded even when ctx was what ended delivery.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if sendErr != nil {
		s.log.Warn("contact delivery failed", zap.String("id", m.ID), zap.Error(sendErr))
		if err := s.store.MarkFailed(recordCtx, m.ID, sendErr); err != nil {
			s.log.Error("recording failed delivery", zap.String("id", m.ID), zap.Error(err))
		}
		return sendErr
	}

	if err := s.store.MarkDelivered(recordCtx, m.ID); err != nil {
		s.log.Error("recording delivery", zap.String("id", m.ID), zap.Error(err))
	}
	return nil
}

// Store returns the outbox backing the service.
func (s *Service) Store() *Store { return s.store }
