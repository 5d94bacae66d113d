package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
)

// EmailService simulates delivering a greeting by email. There is no real
// mail transport; Send just burns a configurable amount of wall-clock time
// so async dispatch has something observable to do.
type EmailService struct {
	delay  time.Duration
	logger logging.Logger
}

// NewEmailService constructs an EmailService with the given simulated
// processing delay.
func NewEmailService(delay time.Duration, l logging.Logger) *EmailService {
	return &EmailService{
		delay:  delay,
		logger: l.With("module", "email_service"),
	}
}

// Send simulates a synchronous email delivery, honoring context
// cancellation during the simulated processing time.
func (s *EmailService) Send(ctx context.Context, greeting *models.Greeting) bool {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.logger.Warn(ctx, "email send interrupted", "id", greeting.ID)
		return false
	case <-timer.C:
	}

	s.logger.Info(ctx, "email sent", "id", greeting.ID, "seconds", s.delay.Seconds())
	return true
}

// SendAsync dispatches Send on a background goroutine. The delivery is
// detached from the request lifetime: a caller abandoning the request does
// not cancel an in-flight send.
func (s *EmailService) SendAsync(ctx context.Context, greeting *models.Greeting) {
	detached := context.WithoutCancel(ctx)
	go func() {
		s.Send(detached, greeting)
	}()
}
