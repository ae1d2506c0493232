package services

import (
	"context"
	"errors"
	"time"

	"github.com/reelhub/reelhub/internal/repository"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func clockOrDefault(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}
