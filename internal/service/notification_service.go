package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lab-rental-service/internal/config"
	"github.com/spec-kit/lab-rental-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRentalCreated, n.handleRentalCreated)
	n.dispatcher.Subscribe(events.EventRentalUpdated, n.handleRentalUpdated)
	n.dispatcher.Subscribe(events.EventRentalDeleted, n.handleRentalDeleted)
	n.dispatcher.Subscribe(events.EventRentalsPurged, n.handleRentalsPurged)
}

func (n *NotificationService) handleRentalCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalCreated", zap.Int64("rental_id", event.RentalID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRentalUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalUpdated", zap.Int64("rental_id", event.RentalID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRentalDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalDeleted", zap.Int64("rental_id", event.RentalID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRentalsPurged(ctx context.Context, event events.Event) error {
	n.logger.Info("RentalsPurged", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("rental_id", event.RentalID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("rental_id", event.RentalID),
		zap.String("event_type", string(event.Type)))
}
