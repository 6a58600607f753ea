package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dialmate-ai/dialmate/pkg/agent/analytics"
	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/session"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

// scriptRand replays fixed draws so tests can force either side of a
// simulated branch.
type scriptRand struct {
	values []int
	i      int
}

func (s *scriptRand) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

type testEnv struct {
	registry  *Registry
	sessions  *session.Manager
	carts     *store.MemoryCarts
	requests  *store.MemoryRequests
	analytics *analytics.Tracker
}

func newTestEnv(randValues ...int) *testEnv {
	env := &testEnv{
		sessions:  session.NewManager(),
		carts:     store.NewMemoryCarts(),
		requests:  store.NewMemoryRequests(),
		analytics: analytics.NewTracker(nil),
	}
	env.registry = NewRegistry(Deps{
		Catalog:   catalog.New(),
		Sessions:  env.sessions,
		Carts:     env.carts,
		Requests:  env.requests,
		Analytics: env.analytics,
		Rand:      &scriptRand{values: randValues},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return env
}

func (e *testEnv) invoke(name string, args Args) string {
	return e.registry.Invoke(context.Background(), Call{Name: name, ID: "call-1", Args: args})
}

func TestInvokeUnknownTool(t *testing.T) {
	env := newTestEnv()

	got := env.invoke("summon_dragon", Args{})
	if got != "I don't have that capability yet. Is there something else I can help with?" {
		t.Fatalf("unexpected response: %q", got)
	}
	// Unknown tools are not counted against any agent.
	if len(env.analytics.Snapshot().AgentCalls) != 0 {
		t.Fatalf("unknown tool must not record an agent call")
	}
}

func TestInvokeTracksAgentCall(t *testing.T) {
	env := newTestEnv()

	env.invoke("search_services", Args{"query": "passport"})
	if got := env.analytics.Snapshot().AgentCalls["information_agent"]; got != 1 {
		t.Fatalf("information_agent calls = %d", got)
	}
}

func TestDispatchDeliversExactlyOnce(t *testing.T) {
	env := newTestEnv()

	results := make(chan string, 2)
	env.registry.Dispatch(context.Background(), Call{Name: "get_session_context", Args: Args{}}, func(text string) {
		results <- text
	})

	select {
	case got := <-results:
		if !strings.Contains(got, "Citizen CIT001") {
			t.Fatalf("unexpected result: %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch never delivered")
	}

	select {
	case extra := <-results:
		t.Fatalf("second delivery: %q", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistrySurface(t *testing.T) {
	env := newTestEnv()

	if !env.registry.Has("process_application") || !env.registry.Has("store_locator") {
		t.Fatalf("expected tools missing from registry")
	}
	if env.registry.Has("talk_to_user") {
		t.Fatalf("unexpected tool registered")
	}

	decls := env.registry.Declarations()
	if len(decls) != 34 {
		t.Fatalf("expected 34 declarations, got %d", len(decls))
	}
	if decls[0].Name != "search_services" {
		t.Fatalf("registration order broken, first is %s", decls[0].Name)
	}
	if len(env.registry.Names()) != len(decls) {
		t.Fatalf("Names and Declarations disagree")
	}
}

func TestArgsTypedGetters(t *testing.T) {
	a := Args{"s": "x", "f": 2.5, "i": 3.0, "empty": ""}

	if a.String("s", "d") != "x" || a.String("missing", "d") != "d" || a.String("empty", "d") != "d" {
		t.Fatalf("String getter broken")
	}
	if a.Float("f", 0) != 2.5 || a.Float("missing", 1.5) != 1.5 {
		t.Fatalf("Float getter broken")
	}
	if a.Int("i", 0) != 3 || a.Int("s", 7) != 7 {
		t.Fatalf("Int getter broken")
	}
}
