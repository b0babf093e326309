package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	f := NoopFormatHooks{}
	f.OnFormatStart(ctx, "keyboard.kbd")
	f.OnFormatComplete(ctx, "keyboard.kbd", true, time.Millisecond, nil)
	f.OnFormatComplete(ctx, "broken.kbd", false, time.Millisecond, errors.New("syntax"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "fmt")
	c.OnCacheMiss(ctx, "fmt")
	c.OnCacheSet(ctx, "fmt", 1)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/v1/format")
	s.OnResponse(ctx, "POST", "/v1/format", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Format().(NoopFormatHooks); !ok {
		t.Error("Format() should return NoopFormatHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customFormat := &testFormatHooks{}
	SetFormatHooks(customFormat)
	if Format() != customFormat {
		t.Error("SetFormatHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Format().(NoopFormatHooks); !ok {
		t.Error("Reset() should restore NoopFormatHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testFormatHooks{}
	SetFormatHooks(custom)
	SetFormatHooks(nil)
	if Format() != custom {
		t.Error("SetFormatHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testFormatHooks{}
	SetFormatHooks(h)
	Format().OnFormatStart(context.Background(), "a.kbd")
	Format().OnFormatComplete(context.Background(), "a.kbd", true, 0, nil)
	if h.started != 1 || h.changed != 1 {
		t.Errorf("events = %d started, %d changed", h.started, h.changed)
	}
}

type testFormatHooks struct {
	NoopFormatHooks
	started, changed int
}

func (h *testFormatHooks) OnFormatStart(context.Context, string) { h.started++ }

func (h *testFormatHooks) OnFormatComplete(_ context.Context, _ string, changed bool, _ time.Duration, _ error) {
	if changed {
		h.changed++
	}
}

type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
