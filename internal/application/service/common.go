package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/domain/repository"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/logger"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Deps are the collaborators every service shares
type Deps struct {
	Logger    *zap.Logger
	Publisher event.Publisher
}

type base struct {
	logger    *zap.Logger
	publisher event.Publisher
}

func newBase(deps Deps) base {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return base{logger: deps.Logger, publisher: deps.Publisher}
}

// fail converts err to an AppError and logs it under the operation name.
// Caller mistakes are logged at warn, everything else at error.
func (b base) fail(ctx context.Context, op string, err error) error {
	appErr := apperror.GetAppError(translate(err))

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", string(appErr.Kind)),
		zap.Error(err),
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if appErr.Kind == apperror.KindInternal {
		b.logger.Error("operation failed", fields...)
	} else {
		b.logger.Warn("operation rejected", fields...)
	}
	return appErr
}

// notify publishes a change. Subscribers are best effort, so a failure is only logged.
func (b base) notify(ctx context.Context, collection string, op event.Op, id uuid.UUID) {
	if b.publisher == nil {
		return
	}
	change := event.Change{Collection: collection, Op: op, ID: id.String(), At: time.Now()}
	if err := b.publisher.Publish(ctx, change); err != nil {
		b.logger.Warn("failed to publish change",
			zap.String("collection", collection),
			zap.String("id", change.ID),
			zap.Error(err),
		)
	}
}

// translate maps store failures onto error kinds
func translate(err error) error {
	switch {
	case apperror.IsAppError(err):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return apperror.New(apperror.KindNotFound, err.Error())
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrCorruptQuantity),
		errors.Is(err, repository.ErrStaleWrite):
		return apperror.NewFailedPrecondition(err.Error())
	default:
		return err
	}
}

// parseID parses an id that validation has already checked
func parseID(raw string) uuid.UUID {
	id, _ := uuid.Parse(strings.TrimSpace(raw))
	return id
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func optionalMoney(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

// idArg parses an id taken from the request path or query
func idArg(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidArgument([]apperror.FieldError{{Field: field, Message: "must be a valid id"}})
	}
	return id, nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// IDResult is returned by writes that only report the record id
type IDResult struct {
	ID string `json:"id"`
}
