package config

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestFromCLI(t *testing.T) {
	oldSegments, oldTTL, oldCost := Segments, SummaryCacheTTL, PitLaneTimeCost
	t.Cleanup(func() {
		Segments, SummaryCacheTTL, PitLaneTimeCost = oldSegments, oldTTL, oldCost
	})

	Segments = 20
	SummaryCacheTTL = "0s"
	PitLaneTimeCost = -1
	cfg := FromCLI()
	assert.Equal(t, 20, cfg.Segments)
	assert.Equal(t, time.Duration(0), cfg.SummaryCacheTTL)
	assert.Equal(t, DefaultPitLaneTimeCost, cfg.PitLaneTimeCost)
}

func TestContext(t *testing.T) {
	assert.DeepEqual(t, DefaultConfig(), FromContext(context.Background()))

	cfg := DefaultConfig()
	cfg.MaxInsights = 3
	ctx := NewContext(context.Background(), cfg)
	assert.Equal(t, 3, FromContext(ctx).MaxInsights)
}
