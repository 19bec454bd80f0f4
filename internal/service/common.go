package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/observability"
	"github.com/golfworks/fittings/internal/pagination"
)

// SQLSTATE of a Postgres serialization failure.
const pgSerializationFailure = "40001"

// storeErr maps a repository error onto the apperror taxonomy. Errors that
// already carry a type pass through unchanged.
func storeErr(op, notFound string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.InvalidInput("Duplicate value")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.InvalidInput("Referenced record does not exist")
	default:
		return apperror.Internal(op, err)
	}
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

// publish never fails the caller: the database commit is authoritative and
// a lost event is only logged.
func publish(ctx context.Context, pub events.Publisher, key string, v any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, v); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("routing_key", key).
			Msg("publish event failed")
	}
}

func newPage[T any](items []T, req pagination.Request, total int64) pagination.Page[T] {
	if items == nil {
		items = []T{}
	}
	return pagination.Page[T]{Items: items, Meta: pagination.NewMeta(req, total)}
}
