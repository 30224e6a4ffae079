// Package service delivers contact form submissions to the support inbox
// through a transactional email API.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/contact/pkg/request"
	"github.com/smartaero/storefront/internal/config"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("contact/service")

type ContactService struct {
	client *http.Client
	config config.Email
}

func NewContactService(cfg config.Email) ContactService {
	return ContactService{
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		config: cfg,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html"`
}

type sendEmailError struct {
	Message string `json:"message"`
}

// SendContactEmail forwards the submission to the support recipient. The
// remote call is bounded by the configured timeout.
func (s ContactService) SendContactEmail(c context.Context, msg request.ContactMessage) error {
	c, span := tracer.Start(c, "ContactService SendContactEmail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ContactService SendContactEmail").
		Str(log.KeyEmail, msg.Email).
		Str(log.KeySubject, msg.Subject).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling requestbody").Logger()
	logger.Info().Msg("marshaling request body")
	body, err := json.Marshal(sendEmailRequest{
		From:    s.config.Sender,
		To:      []string{s.config.Recipient},
		Subject: fmt.Sprintf("Contact Form: %s", msg.Subject),
		Html: fmt.Sprintf(
			"<p><strong>From:</strong> %s (%s)</p><p>%s</p>",
			html.EscapeString(msg.Name),
			html.EscapeString(msg.Email),
			html.EscapeString(msg.Message),
		),
	})
	if err != nil {
		err = fmt.Errorf("failed marshaling request body with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("marshaled request body")

	logger = logger.With().Str(log.KeyProcess, "sending email").Logger()
	logger.Info().Msg("sending email")
	c, cancel := context.WithTimeout(c, time.Duration(s.config.TimeoutMs)*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		s.config.Endpoint+"/emails",
		bytes.NewReader(body),
	)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.ApiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending email with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		logger.Info().Msg("sent email")
		return nil
	}

	remote := sendEmailError{}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&remote); decodeErr != nil {
		err = fmt.Errorf(
			"email api returned statusCode=%d with unreadable body error=%w",
			resp.StatusCode,
			decodeErr,
		)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = fmt.Errorf("email api returned statusCode=%d message=%s", resp.StatusCode, remote.Message)
	errors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return err
}
