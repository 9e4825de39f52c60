package auth

import (
	"context"
	"sync"
)

// codeExchanger is the slice of [Flow] the Exchanger needs.
type codeExchanger interface {
	CompleteLogin(ctx context.Context, code string) (string, error)
}

// Exchanger guarantees the token exchange runs exactly once, even when the
// triggering event fires twice (a duplicate callback hit, a re-entered
// handler). The guard is a one-shot state transition, not a comparison of
// code values: authorization codes are single-use and there is no
// retry-with-same-code path, so a second invocation simply observes the
// first outcome.
type Exchanger struct {
	flow  codeExchanger
	once  sync.Once
	mu    sync.Mutex
	done  bool
	token string
	err   error
}

// NewExchanger wraps a flow in a one-shot guard.
func NewExchanger(flow codeExchanger) *Exchanger {
	return &Exchanger{flow: flow}
}

// Exchange performs the token exchange on the first call and returns the
// recorded outcome on every call after that.
func (e *Exchanger) Exchange(ctx context.Context, code string) (string, error) {
	e.once.Do(func() {
		token, err := e.flow.CompleteLogin(ctx, code)

		e.mu.Lock()
		e.token, e.err, e.done = token, err, true
		e.mu.Unlock()
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token, e.err
}

// Completed reports whether the exchange has run.
func (e *Exchanger) Completed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}
