// Package tools implements the dispatch catalog: the fixed set of named
// asynchronous operations an LLM-driven agent can invoke. Every tool reads or
// mutates the shared stores and reports back through a result callback with a
// natural-language string, never a structured value, because the output
// becomes spoken audio. Tools fail soft: internal errors surface to the
// caller as an apologetic message, never as an error or panic.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

// FallbackMessage is returned whenever a tool body fails in a way the
// handler did not anticipate.
const FallbackMessage = "I'm sorry, I ran into a problem with that. Could you try once more?"

// Args is the string-keyed argument bag a tool call carries. Missing or
// mistyped fields resolve to documented defaults rather than failing.
type Args map[string]any

// String returns the string value for key, or def when absent or not a
// string.
func (a Args) String(key, def string) string {
	if v, ok := a[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Float returns the numeric value for key. JSON numbers decode as float64;
// ints are accepted for callers constructing args in Go.
func (a Args) Float(key string, def float64) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Int returns the numeric value for key truncated to int.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// Call is one tool invocation.
type Call struct {
	Name string
	ID   string
	Args Args
}

// Handler executes one tool. Implementations must call respond exactly once;
// the registry enforces at-most-once delivery and supplies the fallback when
// a handler panics or forgets.
type Handler func(ctx context.Context, call Call, respond func(text string))

// Deps carries the shared state every tool closes over. All stores are
// injected; tools keep no state of their own.
type Deps struct {
	Catalog   *catalog.Catalog
	Sessions  *session.Manager
	Carts     store.CartLedger
	Requests  store.RequestLedger
	Analytics *analytics.Tracker
	Rand      sim.Rand
	Logger    *slog.Logger
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

type entry struct {
	decl    Declaration
	agent   string
	handler Handler
}

// Registry maps fixed tool names to handlers.
type Registry struct {
	deps    Deps
	byName  map[string]entry
	order   []string
	logger  *slog.Logger
	timeout time.Duration
}

// NewRegistry builds the full catalog over deps.
func NewRegistry(deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		deps:    deps,
		byName:  make(map[string]entry),
		logger:  logger,
		timeout: 10 * time.Second,
	}
	r.registerServiceTools()
	r.registerRetailTools()
	r.registerEdgeTools()
	return r
}

func (r *Registry) register(decl Declaration, agent string, h Handler) {
	if _, dup := r.byName[decl.Name]; dup {
		panic(fmt.Sprintf("tools: duplicate registration for %q", decl.Name))
	}
	r.byName[decl.Name] = entry{decl: decl, agent: agent, handler: h}
	r.order = append(r.order, decl.Name)
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether name is a registered tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Declarations returns every tool declaration in registration order, for
// handing to the model at session setup.
func (r *Registry) Declarations() []Declaration {
	out := make([]Declaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].decl)
	}
	return out
}

// Dispatch runs the named tool asynchronously and delivers its prose result
// through respond, exactly once. Unknown names and panicking handlers both
// resolve to a soft message; nothing propagates to the caller.
func (r *Registry) Dispatch(ctx context.Context, call Call, respond func(text string)) {
	go func() {
		respond(r.Invoke(ctx, call))
	}()
}

// Invoke is the synchronous form of Dispatch, used by the text-channel
// handlers and tests.
func (r *Registry) Invoke(ctx context.Context, call Call) string {
	e, ok := r.byName[call.Name]
	if !ok {
		r.logger.Warn("unknown tool requested", "tool", call.Name, "call_id", call.ID)
		return "I don't have that capability yet. Is there something else I can help with?"
	}
	r.deps.Analytics.TrackAgentCall(e.agent)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		once   sync.Once
		result = FallbackMessage
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("tool panicked", "tool", call.Name, "call_id", call.ID, "panic", rec)
			}
		}()
		e.handler(ctx, call, func(text string) {
			once.Do(func() {
				if text != "" {
					result = text
				}
			})
		})
	}()
	return result
}
