package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["music_requests"]
	IncrResolve(SiteMusic)
	assert.Equal(t, before+1, GetMetrics()["music_requests"])

	out := FormatMetrics()
	for _, k := range metricKeys {
		assert.True(t, strings.Contains(out, k+" "), k)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(metricKeys))
}

func TestTrackOperationReturnsError(t *testing.T) {
	want := errors.New("render failed")
	calls := 0
	err := TrackOperation(context.Background(), "render", func(context.Context) error {
		calls++
		return want
	})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, calls)

	assert.NoError(t, TrackOperation(context.Background(), "render", func(context.Context) error { return nil }))
}
