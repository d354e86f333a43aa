package mailservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ogcamping/console/internal/blogservice"
	"github.com/ogcamping/console/internal/common"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"
)

const (
	rejectedTemplate  = "review_rejected.html"
	publishedTemplate = "review_published.html"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, siteURL string, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:      mb,
		m:       NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:  logger,
		siteURL: strings.TrimRight(siteURL, "/"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// reviewMail picks the template and data for a blog update, ok is false when
// the update is not a review outcome.
func (s *MailService) reviewMail(b *blogservice.Blog) (string, ReviewData, bool) {
	data := ReviewData{
		Title:  b.Title,
		Author: b.CreatedBy.Name,
		Reason: b.RejectedReason,
		Link:   fmt.Sprintf("%s/blogs/%d", s.siteURL, b.ID),
	}
	if data.Author == "" {
		data.Author = b.CreatedBy.Email
	}

	switch {
	case b.Status == blogservice.StatusDraft && b.RejectedReason != "":
		return rejectedTemplate, data, true
	case b.Status == blogservice.StatusPublished:
		return publishedTemplate, data, true
	default:
		return "", data, false
	}
}

// SendReviewEmails notifies staff by e-mail when one of their blogs is
// rejected or published.
func (s *MailService) SendReviewEmails() {
	msgs, err := s.mb.Consume(common.StaffBlogUpdatesKey, common.BlogExchange, common.ReviewMailQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleReview(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendReviewEmails due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) handleReview(msg amqp.Delivery) {
	var blog blogservice.Blog

	err := json.Unmarshal(msg.Body, &blog)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		msg.Ack(false)
		return
	}

	templateFile, data, ok := s.reviewMail(&blog)
	if !ok || blog.CreatedBy.Email == "" {
		msg.Ack(false)
		return
	}

	// using exponential backoff with jitter
	const maxRetries = 5
	const baseDelay = 500 * time.Millisecond

	var attempt int
	for attempt = 0; attempt < maxRetries; attempt++ {
		err = s.m.send(blog.CreatedBy.Email, data, templateFile)
		if err == nil {
			s.logger.Info("review email sent", slog.String("email", blog.CreatedBy.Email))
			msg.Ack(false)
			break
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying review email", slog.String("email", blog.CreatedBy.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	if attempt == maxRetries {
		s.logger.Error("could not send review email", slog.String("email", blog.CreatedBy.Email))
		msg.Ack(false)
	}
}

func (s *MailService) Close() {
	s.cancel()
}
