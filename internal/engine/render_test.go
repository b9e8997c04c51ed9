package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAvailable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BrowserWSURL = "ws://127.0.0.1:9222"
	assert.True(t, RenderAvailable(cfg))

	cfg.EnableRender = false
	assert.False(t, RenderAvailable(cfg), "disabled rendering wins over a configured endpoint")
}

func unreachableRenderer() *Renderer {
	cfg := DefaultConfig()
	cfg.BrowserWSURL = "ws://127.0.0.1:1"
	cfg.RenderTimeout = 5 * time.Second
	cfg.RenderSettle = 0
	cfg.RenderSessions = 1
	return NewRenderer(cfg)
}

func TestRenderPageUnreachableBrowser(t *testing.T) {
	r := unreachableRenderer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, err := r.RenderPage(ctx, "https://www.zhihu.com/question/1")
	require.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, []ErrorKind{RenderFailure, NetworkTimeout}, KindOf(err))
	assert.Empty(t, r.sessions, "session slot must be released after a failure")
}

func TestRenderPageReleasesSessionSlot(t *testing.T) {
	r := unreachableRenderer()

	_, err := r.RenderPage(context.Background(), "https://www.zhihu.com/question/1")
	require.Error(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := r.RenderPage(context.Background(), "https://www.zhihu.com/question/2")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, []ErrorKind{RenderFailure, NetworkTimeout}, KindOf(err))
	case <-time.After(15 * time.Second):
		t.Fatal("second render blocked on the session semaphore")
	}
	assert.Empty(t, r.sessions)
}
