package evo

import (
	"context"

	"onemax/internal/model"
)

// StatsSink receives every GenerationStats record as soon as it is
// produced. Sinks run synchronously on the loop goroutine.
type StatsSink interface {
	Publish(ctx context.Context, stats model.GenerationStats) error
}

// SinkFunc adapts a function to StatsSink.
type SinkFunc func(ctx context.Context, stats model.GenerationStats) error

func (f SinkFunc) Publish(ctx context.Context, stats model.GenerationStats) error {
	return f(ctx, stats)
}
