package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrDraftNotFound    = errors.New("checkout draft not found")
	ErrStageInvalid     = errors.New("current stage has empty required fields")
	ErrAlreadyConfirmed = errors.New("checkout already confirmed")
	ErrNotAdmin         = errors.New("admin access required")
	ErrSessionNotFound  = errors.New("session not found")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
