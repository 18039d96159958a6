package fields

import (
	"context"
	"reflect"
	"sync"

	"github.com/fwojciec/webpo"
	"golang.org/x/sync/singleflight"
)

// InputValidator is implemented by Page Objects that check their inputs
// before any field is computed. ValidateInput runs at most once per
// instance and page type, so a derived page and the base page it embeds
// are validated separately. Its error is returned unchanged by every later
// field access and assembly on that page.
//
// Fields read from inside ValidateInput must be read with the context it
// receives; reads on the same instance then skip validation. A read with
// any other context waits for the running validation until that context
// is done.
type InputValidator interface {
	ValidateInput(ctx context.Context) error
}

// ItemBuilder is implemented by Page Objects that assemble their own item.
// ToItem uses it instead of assembling all fields.
type ItemBuilder interface {
	ToItem(ctx context.Context) (any, error)
}

// State holds the per-instance field cache and validation state of a Page
// Object. Embed it by value in the Page struct and use the page through a
// pointer; the zero value is ready to use.
type State struct {
	mu     sync.Mutex
	values map[string]any
	group  singleflight.Group

	validations map[reflect.Type]*validation
}

// validation is the outcome of one page type's input validation. done is
// closed once err is set.
type validation struct {
	done chan struct{}
	err  error
}

// FieldState returns s. It makes any struct embedding State a Page.
func (s *State) FieldState() *State {
	return s
}

func (s *State) load(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *State) store(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = v
}

// once returns the cached value for key, computing it if needed.
// Concurrent callers share a single computation, which does not observe
// the cancellation of whichever caller started it. Synchronous fields run
// on the goroutine of the first caller. Asynchronous fields run on their
// own goroutine, so a caller that gives up returns ctx.Err() without
// affecting the others. Errors are returned to every waiter and not cached.
func (s *State) once(ctx context.Context, key string, async bool, compute func(context.Context) (any, error)) (any, error) {
	if v, ok := s.load(key); ok {
		return v, nil
	}
	shared := context.WithoutCancel(ctx)
	flight := func() (any, error) {
		if v, ok := s.load(key); ok {
			return v, nil
		}
		v, err := compute(shared)
		if err != nil {
			return nil, err
		}
		s.store(key, v)
		return v, nil
	}
	if !async {
		v, err, _ := s.group.Do(key, flight)
		return v, err
	}
	select {
	case res := <-s.group.DoChan(key, flight):
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// validatingFrame marks, in a context, the states whose validation hook is
// running on the current call path.
type validatingFrame struct {
	state *State
	outer *validatingFrame
}

type validatingKey struct{}

func validating(ctx context.Context, s *State) bool {
	f, _ := ctx.Value(validatingKey{}).(*validatingFrame)
	for ; f != nil; f = f.outer {
		if f.state == s {
			return true
		}
	}
	return false
}

// validate runs the input validation of page's dynamic type if it has not
// run yet, and returns its outcome otherwise. Calls made from inside a hook
// on the same instance return nil. A panicking hook fails with EINTERNAL.
func (s *State) validate(ctx context.Context, page Page) error {
	hook, ok := page.(InputValidator)
	if !ok || validating(ctx, s) {
		return nil
	}
	t := reflect.TypeOf(page)

	s.mu.Lock()
	if v, ok := s.validations[t]; ok {
		s.mu.Unlock()
		select {
		case <-v.done:
			return v.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.validations == nil {
		s.validations = make(map[reflect.Type]*validation)
	}
	v := &validation{done: make(chan struct{})}
	s.validations[t] = v
	s.mu.Unlock()

	outer, _ := ctx.Value(validatingKey{}).(*validatingFrame)
	hookCtx := context.WithValue(context.WithoutCancel(ctx), validatingKey{}, &validatingFrame{state: s, outer: outer})
	v.err = runHook(hookCtx, hook, t)
	close(v.done)
	return v.err
}

func runHook(ctx context.Context, hook InputValidator, t reflect.Type) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = webpo.Errorf(webpo.EINTERNAL, "input validation of %s panicked: %v", webpo.TypeName(t), r)
		}
	}()
	return hook.ValidateInput(ctx)
}
