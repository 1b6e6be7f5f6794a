package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	var n Noop

	n.OnLoadStart(ctx, "file:org.json")
	n.OnLoadComplete(ctx, "file:org.json", 12, time.Second, nil)
	n.OnBuildStart(ctx, 12, 11)
	n.OnBuildComplete(ctx, 13, 0, time.Millisecond)
	n.OnRenderStart(ctx, []string{"svg"})
	n.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	n.OnCacheHit(ctx, "tree")
	n.OnCacheMiss(ctx, "artifact")
	n.OnCacheSet(ctx, "artifact", 1024)
	n.OnRequest(ctx, "GET", "console.example.com", "/api/positions")
	n.OnResponse(ctx, "GET", "console.example.com", "/api/positions", 200, time.Second)
	n.OnError(ctx, "GET", "console.example.com", "/api/positions", nil)
}

func TestInstall(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(Noop); !ok {
		t.Error("Pipeline() should default to Noop")
	}

	custom := &testPipelineHooks{}
	restore := Install(Hooks{Pipeline: custom})
	if Pipeline() != custom {
		t.Error("Install should set pipeline hooks")
	}
	if _, ok := Cache().(Noop); !ok {
		t.Error("unset families should fall back to Noop")
	}

	inner := Install(All(NewLogHooks(log.Default())))
	if _, ok := HTTP().(*LogHooks); !ok {
		t.Error("All should install the hooks for every family")
	}
	inner()
	if Pipeline() != custom {
		t.Error("restore should bring back the previous hooks")
	}

	restore()
	if _, ok := Pipeline().(Noop); !ok {
		t.Error("restore should bring back Noop")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLoadComplete(ctx, "mongo:orgs", 42, time.Second, nil)
	h.OnBuildComplete(ctx, 43, 2, time.Millisecond)
	h.OnLoadComplete(ctx, "rest", 0, 0, errors.New("connection refused"))
	h.OnCacheHit(ctx, "tree")

	out := buf.String()
	for _, want := range []string{"loaded", "positions=42", "built hierarchy", "diagnostics=2", "load failed", "connection refused", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	NewLogHooks(logger).OnCacheMiss(context.Background(), "tree")

	if buf.Len() != 0 {
		t.Errorf("debug events should be suppressed at info level, got %q", buf.String())
	}
}

type testPipelineHooks struct{ Noop }
