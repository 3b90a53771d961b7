package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

const supportSubject = "Support request"

// SupportService forwards messages from signed-in users to the support mailbox.
type SupportService struct {
	notifier ports.Notifier
	mailbox  string
	log      zerolog.Logger
}

func NewSupportService(notifier ports.Notifier, mailbox string, log zerolog.Logger) *SupportService {
	return &SupportService{
		notifier: notifier,
		mailbox:  mailbox,
		log:      log.With().Str("component", "support_service").Logger(),
	}
}

func (s *SupportService) Submit(ctx context.Context, user *domain.User, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyMessage
	}
	if s.mailbox == "" {
		s.log.Error().Msg("support mailbox is not configured")
		return domain.ErrNotifierUnavailable
	}

	err := s.notifier.Notify(ctx, domain.Notification{
		To:      s.mailbox,
		Subject: supportSubject,
		Body:    fmt.Sprintf("Sent by: %s\n\n%s", user.Username, text),
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("support message queued")
	return nil
}
