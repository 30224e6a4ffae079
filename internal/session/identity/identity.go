// Package identity talks to the external authentication provider. The
// storefront never issues credentials itself; it only revokes sessions the
// provider created and mirrors the events the provider emits.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/config"
	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
)

var tracer = otel.Tracer("session/identity")

// Provider revokes a session at the authentication provider.
type Provider interface {
	SignOut(c context.Context, accessToken string) error
}

// HttpProvider implements Provider against the provider's REST endpoint.
type HttpProvider struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewHttpProvider(cfg config.Identity) *HttpProvider {
	return &HttpProvider{
		client:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.ApiKey,
	}
}

type signOutRequest struct {
	AccessToken string `json:"accessToken"`
}

type providerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SignOut revokes the session behind accessToken. A session the provider no
// longer knows about maps to errors.ErrSessionNotFound so callers can treat
// it as already signed out.
func (p *HttpProvider) SignOut(c context.Context, accessToken string) error {
	c, span := tracer.Start(c, "HttpProvider SignOut")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "HttpProvider SignOut").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling requestbody").Logger()
	logger.Info().Msg("marshaling request body")
	body, err := json.Marshal(signOutRequest{AccessToken: accessToken})
	if err != nil {
		err = fmt.Errorf("failed marshaling request body with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("marshaled request body")

	logger = logger.With().Str(log.KeyProcess, "calling identity provider").Logger()
	logger.Info().Msg("calling identity provider")
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		p.endpoint+"/sessions/signout",
		bytes.NewReader(body),
	)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling identity provider with error=%w", err)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	logger.Info().Msg("called identity provider")

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	remote := providerError{}
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		err = fmt.Errorf(
			"identity provider returned statusCode=%d with unreadable body error=%w",
			resp.StatusCode,
			err,
		)
		errors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if remote.Code == "session_not_found" {
		err = fmt.Errorf("accessToken no longer known with error=%w", errors.ErrSessionNotFound)
		logger.Info().Err(err).Msg(err.Error())
		return err
	}
	err = fmt.Errorf(
		"identity provider returned statusCode=%d code=%s message=%s",
		resp.StatusCode,
		remote.Code,
		remote.Message,
	)
	errors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return err
}
