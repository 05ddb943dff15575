package ports

import (
	"context"

	"github.com/planbound/projects-service/internal/domain"
)

// UnitOfWorkScope is what use-case code sees inside one business
// transaction: a repository bound to the open storage transaction and the
// event publisher scoped to it.
type UnitOfWorkScope interface {
	Projects() ProjectRepository
	Events() *domain.EventPublisher
}

// UnitOfWork bounds one transactional use-case execution. Do opens a
// storage transaction and a fresh event publisher, runs fn, and on a nil
// return writes one outbox row per accumulated event through the same
// transaction before committing. Any error or panic from fn, from the
// outbox flush, or from the commit itself rolls everything back, so a
// state change and its events are always recorded together or not at all.
// The connection is released on every exit path.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, scope UnitOfWorkScope) error) error
}
