package hook

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/grc-lab/attest/pkg/domain/types"
)

// Handler is a lifecycle callback for one document kind. The doc value
// is the concrete model pointer of the kind it was registered for;
// handlers may mutate it (e.g. derive scores) before persistence.
type Handler func(ctx context.Context, doc any) error

type key struct {
	kind  types.DocKind
	event types.DocEvent
}

// Registry is an explicit mapping from (kind, event) to handlers. It
// replaces name-based dynamic hook dispatch: every lifecycle operation
// routes through Dispatch, and the set of handlers is fixed at
// construction time.
type Registry struct {
	mu       sync.RWMutex
	handlers map[key][]Handler
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[key][]Handler),
	}
}

// On registers a handler for the given kind and event. Handlers run in
// registration order.
func (r *Registry) On(kind types.DocKind, event types.DocEvent, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{kind: kind, event: event}
	r.handlers[k] = append(r.handlers[k], h)
}

// Dispatch invokes all handlers registered for the kind and event. The
// first handler error aborts the chain and is returned to the caller,
// which must not persist the document afterwards.
func (r *Registry) Dispatch(ctx context.Context, kind types.DocKind, event types.DocEvent, doc any) error {
	r.mu.RLock()
	hs := r.handlers[key{kind: kind, event: event}]
	r.mu.RUnlock()

	for _, h := range hs {
		if err := h(ctx, doc); err != nil {
			return goerr.Wrap(err, "hook handler failed",
				goerr.V("kind", kind),
				goerr.V("event", event))
		}
	}
	return nil
}
