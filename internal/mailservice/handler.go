package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sushihentaime/cleanblog/internal/common"
)

var ErrDeliveryFailed = errors.New("could not deliver message")

func NewMailService(host string, port int, username, password, sender, recipient string, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		recipient: recipient,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// UseBroker makes SendContactMessage publish to the contact exchange instead of
// talking to the relay inside the request.
func (s *MailService) UseBroker(mb common.MessageProducer) {
	s.mb = mb
}

// SendContactMessage forwards a contact form submission to the site owner. Without a
// broker the message is delivered synchronously and delivery errors wrap
// ErrDeliveryFailed. Nothing is retried.
func (s *MailService) SendContactMessage(ctx context.Context, msg *ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)

	v := common.NewValidator()
	validateContactMessage(v, msg)
	if !v.Valid() {
		return v.ValidationError()
	}

	if s.mb != nil {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		err = s.mb.Publish(ctx, data, common.ContactSubmittedKey, common.ContactExchange)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}

		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.deliver(msg)
}

func (s *MailService) deliver(msg *ContactMessage) error {
	err := s.m.send(s.recipient, msg, contactTemplate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	s.logger.Info("contact message sent", slog.String("from", msg.Email))
	return nil
}

// ConsumeContactMessages delivers queued contact messages until Close is called. Every
// delivery is attempted once and acknowledged whatever the outcome.
func (s *MailService) ConsumeContactMessages(mc common.MessageConsumer) error {
	msgs, err := mc.Consume(common.ContactSubmittedKey, common.ContactExchange, common.ContactMessageQueue)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case d, ok := <-msgs:
				if !ok {
					return
				}

				var msg ContactMessage
				err := json.Unmarshal(d.Body, &msg)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					d.Ack(false)
					continue
				}

				err = s.deliver(&msg)
				if err != nil {
					s.logger.Error("could not send contact message", slog.String("from", msg.Email), slog.String("error", err.Error()))
				}

				d.Ack(false)

			case <-s.ctx.Done():
				s.logger.Info("stopping ConsumeContactMessages due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) Close() {
	s.cancel()
}
