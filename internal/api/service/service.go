package service

import (
	"context"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/events"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/repo"
	"storeapi/pkg/metrics"

	"github.com/rs/zerolog"
)

// Service is the business surface of one resource.
type Service interface {
	Resource() string
	GetAll(ctx context.Context, filter repo.Filter) (repo.Page, error)
	// GetByID fails with a NotFoundError when the id does not exist.
	GetByID(ctx context.Context, id string) (mapping.Entity, error)
	Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error)
	Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error)
	Delete(ctx context.Context, id string) error
}

// Base passes calls through to the repository and publishes a change event
// after every successful write.
type Base struct {
	repo      *repo.Repository
	publisher events.Publisher
	logger    zerolog.Logger
}

func NewBase(repository *repo.Repository, publisher events.Publisher, logger zerolog.Logger) *Base {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Base{
		repo:      repository,
		publisher: publisher,
		logger:    logger.With().Str("resource", repository.Resource()).Logger(),
	}
}

func (slf *Base) Resource() string {
	return slf.repo.Resource()
}

func (slf *Base) GetAll(ctx context.Context, filter repo.Filter) (repo.Page, error) {
	return slf.repo.GetAll(ctx, filter)
}

func (slf *Base) GetByID(ctx context.Context, id string) (mapping.Entity, error) {
	entity, err := slf.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperror.NewNotFound(slf.Resource(), id)
	}
	return entity, nil
}

func (slf *Base) Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error) {
	entity, err := slf.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	slf.publish(ctx, events.Created, entity.ID(), entity)
	return entity, nil
}

func (slf *Base) Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error) {
	entity, err := slf.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	slf.publish(ctx, events.Updated, entity.ID(), entity)
	return entity, nil
}

func (slf *Base) Delete(ctx context.Context, id string) error {
	if err := slf.repo.Delete(ctx, id); err != nil {
		return err
	}
	slf.publish(ctx, events.Deleted, id, nil)
	return nil
}

type pendingKey struct{}

// pendingEvents holds the events of an open transaction.
type pendingEvents struct {
	sends []func(ctx context.Context)
}

// inTransaction runs fn in a store transaction. Events published inside it
// are delivered once the commit succeeds and dropped on rollback.
func (slf *Base) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(pendingKey{}).(*pendingEvents); ok {
		return slf.repo.Transaction(ctx, fn)
	}

	pending := &pendingEvents{}
	if err := slf.repo.Transaction(context.WithValue(ctx, pendingKey{}, pending), fn); err != nil {
		return err
	}
	for _, send := range pending.sends {
		send(ctx)
	}
	return nil
}

func (slf *Base) publish(ctx context.Context, action events.Action, id string, data any) {
	event := events.New(slf.Resource(), action, id, data)
	if pending, ok := ctx.Value(pendingKey{}).(*pendingEvents); ok {
		pending.sends = append(pending.sends, func(ctx context.Context) { slf.send(ctx, event) })
		return
	}
	slf.send(ctx, event)
}

func (slf *Base) send(ctx context.Context, event events.Event) {
	slf.publisher.Publish(ctx, event)
	metrics.EventsPublishedTotal.WithLabelValues(event.Resource, string(event.Action)).Inc()
	slf.logger.Debug().Str("action", string(event.Action)).Str("id", event.ID).Msg("Published change event")
}
