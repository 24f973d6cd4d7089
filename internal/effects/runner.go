// Package effects turns intents into HTTP calls and their outcomes into facts.
package effects

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
)

// ItemsAPI is the remote side the runner calls. *api.Client satisfies it.
type ItemsAPI interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	Update(ctx context.Context, id model.ID, d model.Draft) (model.Item, error)
	Delete(ctx context.Context, id model.ID) error
}

// Runner performs one call per intent. It never retries and never
// deduplicates: identical intents each get their own call.
type Runner struct {
	api ItemsAPI
	log *zap.Logger
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRunner(api ItemsAPI, opts ...Option) *Runner {
	r := &Runner{api: api, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Handle performs the call for in and returns exactly one fact.
// Every error, whatever its kind, becomes a store.Failed carrying its text.
func (r *Runner) Handle(ctx context.Context, in store.Intent) store.Fact {
	switch in := in.(type) {
	case store.FetchRequest:
		items, err := r.api.List(ctx)
		if err != nil {
			return r.failed(store.OpFetch, err)
		}
		return store.FetchSucceeded{Items: items}

	case store.CreateRequest:
		it, err := r.api.Create(ctx, in.Draft)
		if err != nil {
			return r.failed(store.OpCreate, err)
		}
		return store.CreateSucceeded{Item: it}

	case store.UpdateRequest:
		it, err := r.api.Update(ctx, in.ID, in.Draft)
		if err != nil {
			return r.failed(store.OpUpdate, err)
		}
		return store.UpdateSucceeded{Item: it}

	case store.DeleteRequest:
		if err := r.api.Delete(ctx, in.ID); err != nil {
			return r.failed(store.OpDelete, err)
		}
		return store.DeleteSucceeded{ID: in.ID}
	}

	// Intent is sealed to the four request types above.
	r.log.Error("unhandled intent", zap.String("action", string(in.Type())))
	return store.Failed{Op: store.OpFetch, Message: "unhandled intent " + string(in.Type())}
}

func (r *Runner) failed(op store.Op, err error) store.Fact {
	r.log.Warn("request failed", zap.Stringer("op", op), zap.Error(err))
	return store.Failed{Op: op, Message: err.Error()}
}

// Run reacts to every intent received on intents, each on its own goroutine.
// Before each call it dispatches SetLoading(true); once the call returns it
// dispatches the fact. Run returns after intents is closed (or ctx is done)
// and every call already started has dispatched its fact.
func (r *Runner) Run(ctx context.Context, intents <-chan store.Intent, dispatch func(store.Action)) error {
	var g errgroup.Group
	defer func() { _ = g.Wait() }()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-intents:
			if !ok {
				return g.Wait()
			}
			r.log.Debug("intent", zap.String("action", string(in.Type())))
			dispatch(store.SetLoading(true))
			g.Go(func() error {
				dispatch(r.Handle(ctx, in))
				return nil
			})
		}
	}
}
