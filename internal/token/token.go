package token

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/smartaero/storefront/internal/errors"
	"github.com/smartaero/storefront/internal/log"
	inOtel "github.com/smartaero/storefront/internal/otel"
)

var tracer = otel.Tracer("internal/token")

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func Verify(c context.Context, raw string, secretKey string) (*jwt.Token, error) {
	c, span := tracer.Start(c, "token Verify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "token Verify").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	logger.Trace().Msg("parsing claims")
	jwtToken, err := jwt.ParseWithClaims(raw,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing claims with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("parsed claims")

	logger = logger.With().Str(log.KeyProcess, "validating token").Logger()
	logger.Trace().Msg("validating token")
	if !jwtToken.Valid {
		err = fmt.Errorf("failed validating token with error=%w", errors.ErrTokenInvalid)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, errors.ErrTokenInvalid
	}
	logger.Trace().Msg("validated token")

	return jwtToken, nil
}

type tokenKey struct{}

func AttachToContext(c context.Context, t *jwt.Token) context.Context {
	return context.WithValue(c, tokenKey{}, t)
}

func FromContext(c context.Context) (*jwt.Token, bool) {
	t, ok := c.Value(tokenKey{}).(*jwt.Token)
	return t, ok
}

func ClaimsFromContext(c context.Context) (*Claims, bool) {
	t, ok := FromContext(c)
	if !ok {
		return nil, false
	}
	claims, ok := t.Claims.(*Claims)
	return claims, ok
}
