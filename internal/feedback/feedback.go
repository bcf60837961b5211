// Package feedback handles the About page feedback form. Submissions are
// logged and optionally forwarded by mail; nothing is stored.
package feedback

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	emailverifier "github.com/AfterShip/email-verifier"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyFeedback = errors.New("feedback: message is empty")
	ErrInvalidEmail  = errors.New("feedback: contact email is not valid")
)

// ThankYou is shown after a successful submission.
const ThankYou = "Thank you for your feedback! We appreciate your input."

const maxMessageLen = 5000

// Submission is one filled-in feedback form. Email is optional.
type Submission struct {
	Message string `json:"feedback" form:"feedback"`
	Email   string `json:"email" form:"email"`
}

// Mailer forwards a submission to whoever reads feedback.
type Mailer interface {
	Send(ctx context.Context, s Submission) error
}

type Service struct {
	mailer   Mailer
	verifier *emailverifier.Verifier
}

// NewService returns a Service. mailer may be nil, in which case feedback
// is only logged.
func NewService(mailer Mailer) *Service {
	return &Service{
		mailer:   mailer,
		verifier: emailverifier.NewVerifier(),
	}
}

// Submit validates and dispatches s. A failure to send mail is logged but
// does not fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	sub.Message = strings.TrimSpace(sub.Message)
	sub.Email = strings.TrimSpace(sub.Email)

	if sub.Message == "" {
		return ErrEmptyFeedback
	}
	sub.Message = truncate(sub.Message, maxMessageLen)
	if sub.Email != "" && !s.verifier.ParseAddress(sub.Email).Valid {
		return ErrInvalidEmail
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Int("length", len(sub.Message)).
		Bool("has_email", sub.Email != "").
		Msg("Feedback received")

	if s.mailer == nil {
		return nil
	}
	if err := s.mailer.Send(ctx, sub); err != nil {
		logger.Error().Err(err).Msg("Failed to forward feedback")
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
