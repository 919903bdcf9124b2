package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vankampen/pkg/cache"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/observability"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c cache.Cache) *Runner {
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Presentation: "a*b*c*d",
		Formats:      []string{FormatDOT, FormatEdges, FormatNotebook, FormatJSON},
		Quiet:        true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.ID == "" {
		t.Error("missing run ID")
	}
	if got := res.Circuit.String(); got != "b*c*d*a" {
		t.Errorf("Circuit = %q, want b*c*d*a", got)
	}
	if res.Stats.Bound != 1 || res.Stats.Leftover != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.DiagramHit {
		t.Error("NullCache should never hit")
	}

	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot artifact = %q", dot)
	}
	if !strings.Contains(dot, `shape=circle,label="S"`) {
		t.Errorf("terminal should be highlighted in DOT:\n%s", dot)
	}
	if n := strings.Count(string(res.Artifacts[FormatEdges]), "\n"); n != 4 {
		t.Errorf("edges artifact has %d lines, want 4", n)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatNotebook]), "Graph[{") {
		t.Errorf("notebook artifact = %q", res.Artifacts[FormatNotebook])
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"circuit": "b*c*d*a"`)) {
		t.Errorf("json artifact = %s", res.Artifacts[FormatJSON])
	}
	if !strings.Contains(res.Summary(), "1/1 relators bound") {
		t.Errorf("Summary = %q", res.Summary())
	}
}

func TestExecuteCachesDiagram(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	opts := Options{Presentation: "a*b*c\nc^-1*d*e", Quiet: true}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.DiagramHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.DiagramHit {
		t.Error("second run should hit")
	}
	if second.Document.ID != first.Document.ID {
		t.Errorf("cached document ID = %q, want %q", second.Document.ID, first.Document.ID)
	}
	if second.ID == first.ID {
		t.Error("each run should get its own ID")
	}
	if second.Circuit.String() != first.Circuit.String() {
		t.Errorf("cached circuit %q, want %q", second.Circuit, first.Circuit)
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.DiagramHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteSplit(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Presentation: "a*b*c*d\nc!*e*f",
		NotSort:      true,
		Split:        true,
		Formats:      []string{FormatEdges},
		Quiet:        true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Bound != 2 {
		t.Fatalf("Bound = %d, want 2", res.Stats.Bound)
	}

	// Only the shared c edge of the square and the triangle reaches 0.5.
	if len(res.Components) != 1 {
		t.Fatalf("got %d components, want 1", len(res.Components))
	}
	p := res.Components[0]
	if p.Index != 1 || p.Nodes != 2 || p.Edges != 1 {
		t.Errorf("component = %+v", p)
	}
	if got := string(p.Artifacts[FormatEdges]); got != "0 1\n" {
		t.Errorf("component edges = %q", got)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := quietRunner(nil)

	_, err := r.Execute(context.Background(), Options{Presentation: "a*b^0"})
	if !errs.Is(err, errs.ErrCodeInvalidPresentation) {
		t.Errorf("bad presentation: %v", err)
	}

	_, err = r.Execute(context.Background(), Options{
		Presentation: "a*b\nb!*a!\nx*y",
		Algorithm:    "merging",
		Quiet:        true,
	})
	if !errs.Is(err, errs.ErrCodeDeadlock) {
		t.Errorf("merging deadlock: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Execute(ctx, Options{Presentation: "a*b", Quiet: true})
	if err == nil || errs.GetCode(err) != "" {
		t.Errorf("cancelled run should return the bare context error, got %v", err)
	}
}

type countingHooks struct {
	observability.NoopGenerateHooks
	observability.NoopCacheHooks
	mu                        sync.Mutex
	starts, completes, splits int
	hits, misses, sets        int
}

func (h *countingHooks) OnGenerateStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingHooks) OnGenerateComplete(context.Context, string, int, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
}

func (h *countingHooks) OnSplit(context.Context, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.splits++
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestExecuteHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetGenerateHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r := quietRunner(newMemCache())
	opts := Options{Presentation: "a*b*c*d", Split: true, Quiet: true}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if h.starts != 1 || h.completes != 1 {
		t.Errorf("generate hooks: start=%d complete=%d, want 1 each", h.starts, h.completes)
	}
	if h.splits != 2 {
		t.Errorf("split hook called %d times, want 2", h.splits)
	}
	if h.misses != 1 || h.hits != 1 || h.sets != 1 {
		t.Errorf("cache hooks: hit=%d miss=%d set=%d", h.hits, h.misses, h.sets)
	}
}
