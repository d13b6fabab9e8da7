package notify

import (
	"context"

	"BottomScan/internal/domain/service"
	"BottomScan/pkg/logger"
)

// Safe wraps a notifier so delivery failures are logged and swallowed. A
// transient outage in the notification channel must never abort a scan
// cycle or corrupt decision state.
type Safe struct {
	inner  service.Notifier
	logger *logger.Logger
}

func NewSafe(inner service.Notifier, log *logger.Logger) *Safe {
	return &Safe{inner: inner, logger: log}
}

func (s *Safe) Send(ctx context.Context, text string) error {
	if err := s.inner.Send(ctx, text); err != nil {
		if s.logger != nil {
			s.logger.Warn("notifier failed", logger.Error(err))
		}
	}
	return nil
}
