package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/redact"
	"github.com/stockpile/stockpile-api/internal/store"
)

// NewsletterService records newsletter sign-ups.
type NewsletterService interface {
	// Subscribe validates email and stores a subscription for it.
	Subscribe(ctx context.Context, email string) (*store.InsertResult, error)
}

type newsletterServiceImpl struct {
	subs    store.SubscriptionStore
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

var _ NewsletterService = (*newsletterServiceImpl)(nil)

// NewNewsletterService creates a NewsletterService backed by subs.
func NewNewsletterService(
	subs store.SubscriptionStore,
	timeout time.Duration,
	logger *slog.Logger,
) (NewsletterService, error) {
	if subs == nil {
		return nil, fmt.Errorf("subscription store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}

	return &newsletterServiceImpl{
		subs:    subs,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "newsletter_service")),
	}, nil
}

// Subscribe implements NewsletterService.
func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email string) (*store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sub, err := domain.NewSubscription(email, s.now())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.subs.InsertSubscription(ctx, sub)
	if err != nil {
		err = newServiceError("newsletter", "subscribe", "failed to store subscription", err)
		log.Error("failed to store subscription", slog.String("error", redact.Error(err)))
		return nil, err
	}

	log.Info("newsletter subscription stored", slog.String("subscription_id", res.InsertedID))
	return res, nil
}
