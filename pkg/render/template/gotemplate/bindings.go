package gotemplate

import (
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tutorialgen/pkg/render"
)

// SessionKey is the context entry the tutorial block tags read their session
// from.
const SessionKey = "session"

// callErrorsKey holds the errors context functions returned during a render.
// pongo2 keeps only their message, so the engine matches it back to the
// original error when the render fails.
const callErrorsKey = "session_errors"

// SessionContext exposes sess to templates: its values, its functions (as
// pongo2 callables returning unescaped text), the subtask helper and the
// session itself for the block tags.
func SessionContext(sess *render.Session) pongo2.Context {
	calls := &callErrors{}
	ctx := pongo2.Context{
		SessionKey:    sess,
		callErrorsKey: calls,
		"subtask":     subtaskFunc,
	}
	for key, value := range sess.Values() {
		ctx[key] = value
	}
	for name, fn := range sess.Functions() {
		ctx[name] = wrapFunc(fn, calls)
	}
	return ctx
}

func subtaskFunc(name, subtask *pongo2.Value) render.TaskRef {
	return render.Subtask(name.String(), subtask.String())
}

func wrapFunc(fn render.Func, calls *callErrors) func(args ...*pongo2.Value) (*pongo2.Value, error) {
	return func(args ...*pongo2.Value) (*pongo2.Value, error) {
		out, err := fn(unwrapValues(args)...)
		if err != nil {
			calls.add(err)
			return nil, err
		}
		return pongo2.AsSafeValue(out), nil
	}
}

func unwrapValues(values []*pongo2.Value) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, unwrapValue(v))
	}
	return out
}

func unwrapValue(v *pongo2.Value) any {
	if v == nil || v.IsNil() {
		return nil
	}
	return v.Interface()
}

type callErrors struct {
	mu   sync.Mutex
	errs []error
}

func (c *callErrors) add(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// match returns the most recent recorded error whose message is msg.
func (c *callErrors) match(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.errs) - 1; i >= 0; i-- {
		if c.errs[i].Error() == msg {
			return c.errs[i]
		}
	}
	return nil
}
