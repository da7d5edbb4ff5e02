package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"softacc-backend/config"
	"softacc-backend/internal/domain"
	"softacc-backend/pkg/apperror"
	"softacc-backend/pkg/logger"
	"softacc-backend/pkg/mail"
	"softacc-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Messages returned to the caller. None of them carries configuration values.
const (
	MsgMissingFields = "Name, E-Mail und Nachricht sind erforderlich"
	MsgMisconfigured = "Server-Konfigurationsfehler. Bitte kontaktieren Sie den Administrator."
	MsgUnreachable   = "E-Mail-Server nicht erreichbar. Bitte versuchen Sie es später erneut."
	MsgSendFailed    = "E-Mail konnte nicht gesendet werden. Bitte versuchen Sie es später erneut."
	MsgUnexpected    = "Es ist ein Server-Fehler aufgetreten"
)

var errRelayNotConfigured = errors.New("smtp relay not configured")

type contactUsecase struct {
	mailCfg  config.MailConfig
	newRelay mail.RelayFactory
	validate *validator.Validate
}

// NewContactUsecase creates a new contact usecase. mailCfg is read once at
// startup; newRelay is called for every submission that passes validation.
func NewContactUsecase(mailCfg config.MailConfig, newRelay mail.RelayFactory, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{
		mailCfg:  mailCfg,
		newRelay: newRelay,
		validate: validate,
	}
}

// Submit runs validate, configure, build transport, verify, compose and send
// in that order. The first failing step ends the request.
func (uc *contactUsecase) Submit(ctx context.Context, sub *domain.ContactSubmission) (*domain.ContactReceipt, error) {
	fields, appErr := uc.checkFields(sub)
	if appErr != nil {
		return nil, appErr
	}

	tc, appErr := uc.transportConfig(ctx)
	if appErr != nil {
		return nil, appErr
	}

	relay, appErr := uc.buildTransport(ctx, tc)
	if appErr != nil {
		return nil, appErr
	}

	if appErr := uc.verify(ctx, relay, tc); appErr != nil {
		return nil, appErr
	}

	msg, appErr := uc.compose(ctx, fields)
	if appErr != nil {
		return nil, appErr
	}

	id, appErr := uc.send(ctx, relay, tc, msg)
	if appErr != nil {
		return nil, appErr
	}

	return &domain.ContactReceipt{MessageID: id}, nil
}

func (uc *contactUsecase) checkFields(sub *domain.ContactSubmission) (mail.ContactFields, *apperror.AppError) {
	if sub == nil {
		return mail.ContactFields{}, apperror.Validation(MsgMissingFields, nil)
	}

	trimmed := domain.ContactSubmission{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Phone:   strings.TrimSpace(sub.Phone),
		Company: strings.TrimSpace(sub.Company),
		Message: strings.TrimSpace(sub.Message),
	}

	if err := uc.validate.Struct(&trimmed); err != nil {
		logger.Log.Info("Contact submission rejected", "missing", validation.MissingLabels(err))
		return mail.ContactFields{}, apperror.Validation(MsgMissingFields, validation.FormatValidationErrors(err))
	}

	return mail.ContactFields{
		Name:    trimmed.Name,
		Email:   trimmed.Email,
		Phone:   trimmed.Phone,
		Company: trimmed.Company,
		Message: trimmed.Message,
	}, nil
}

func (uc *contactUsecase) transportConfig(ctx context.Context) (mail.TransportConfig, *apperror.AppError) {
	if missing := uc.mailCfg.Missing(); len(missing) > 0 {
		logger.Log.ErrorContext(ctx, "SMTP configuration missing",
			"missing", missing,
			"request_id", domain.RequestIDFrom(ctx),
		)
		return mail.TransportConfig{}, apperror.Configuration(MsgMisconfigured, errRelayNotConfigured)
	}

	port := uc.mailCfg.Port
	if port == 0 {
		port = config.DefaultSMTPPort
	}
	timeout := uc.mailCfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultSMTPTimeout
	}

	return mail.TransportConfig{
		Host:        uc.mailCfg.Host,
		Port:        port,
		ImplicitTLS: uc.mailCfg.ImplicitTLS,
		Username:    uc.mailCfg.Username,
		Password:    uc.mailCfg.Password,
		Timeout:     timeout,
	}, nil
}

func (uc *contactUsecase) buildTransport(ctx context.Context, tc mail.TransportConfig) (mail.Relay, *apperror.AppError) {
	relay, err := uc.newRelay(tc)
	if err != nil {
		logger.Log.ErrorContext(ctx, "Failed to build SMTP transport", "error", err, "request_id", domain.RequestIDFrom(ctx))
		return nil, apperror.Configuration(MsgMisconfigured, err)
	}
	return relay, nil
}

func (uc *contactUsecase) verify(ctx context.Context, relay mail.Relay, tc mail.TransportConfig) *apperror.AppError {
	verifyCtx, cancel := context.WithTimeout(ctx, tc.Timeout)
	defer cancel()

	if err := relay.Verify(verifyCtx); err != nil {
		logger.Log.ErrorContext(ctx, "SMTP connection check failed",
			"error", err,
			"host", tc.Host,
			"port", tc.Port,
			"request_id", domain.RequestIDFrom(ctx),
		)
		return apperror.Unreachable(MsgUnreachable, err)
	}
	logger.Log.DebugContext(ctx, "SMTP connection verified", "host", tc.Host)
	return nil
}

func (uc *contactUsecase) compose(ctx context.Context, fields mail.ContactFields) (*mail.Message, *apperror.AppError) {
	msg, err := mail.ComposeContact(fields, mail.Envelope{
		FromName:    uc.senderName(),
		FromAddress: uc.mailCfg.Username,
		To:          uc.recipient(),
	})
	if err != nil {
		logger.Log.ErrorContext(ctx, "Failed to compose contact message", "error", err, "request_id", domain.RequestIDFrom(ctx))
		return nil, apperror.Unexpected(MsgUnexpected, err)
	}
	return msg, nil
}

func (uc *contactUsecase) send(ctx context.Context, relay mail.Relay, tc mail.TransportConfig, msg *mail.Message) (string, *apperror.AppError) {
	sendCtx, cancel := context.WithTimeout(ctx, tc.Timeout)
	defer cancel()

	id, err := relay.Send(sendCtx, msg)
	if err != nil {
		logger.Log.ErrorContext(ctx, "Failed to send contact email",
			"error", err,
			"request_id", domain.RequestIDFrom(ctx),
		)
		return "", apperror.SendFailed(MsgSendFailed, fmt.Errorf("send contact email: %w", err))
	}

	logger.Log.InfoContext(ctx, "Contact email sent", "message_id", id, "request_id", domain.RequestIDFrom(ctx))
	return id, nil
}

func (uc *contactUsecase) senderName() string {
	if uc.mailCfg.SenderName != "" {
		return uc.mailCfg.SenderName
	}
	return config.DefaultSenderName
}

func (uc *contactUsecase) recipient() string {
	if uc.mailCfg.ContactTo != "" {
		return uc.mailCfg.ContactTo
	}
	return config.DefaultContactTo
}
