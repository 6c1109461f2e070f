package stress

import (
	"io"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/sarchlab/stress/sysmem"
	"github.com/sarchlab/stress/timing"
	"github.com/sarchlab/stress/workbuf"
)

// Builder can build Runners.
type Builder struct {
	clock     timing.Clock
	memory    sysmem.Querier
	allocator workbuf.Allocator
	out       io.Writer
	logger    *zap.Logger
	multiply  bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithClock sets the clock used to check the deadline.
func (b Builder) WithClock(c timing.Clock) Builder {
	b.clock = c
	return b
}

// WithMemoryQuerier sets the source of the available memory.
func (b Builder) WithMemoryQuerier(q sysmem.Querier) Builder {
	b.memory = q
	return b
}

// WithAllocator sets the allocator of the work buffers.
func (b Builder) WithAllocator(a workbuf.Allocator) Builder {
	b.allocator = a
	return b
}

// WithOutput sets the sink that receives the run's output.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.out = w
	return b
}

// WithLogger sets the logger for diagnostics.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.logger = l
	return b
}

// WithMultiply makes memory runs multiply each work buffer by itself.
func (b Builder) WithMultiply(multiply bool) Builder {
	b.multiply = multiply
	return b
}

// Build creates a Runner. Unset parameters fall back to the wall clock, the
// host's virtual memory statistics, a uniform random allocator, a discarding
// output and a no-op logger.
func (b Builder) Build() *Runner {
	r := &Runner{
		id:        xid.New().String(),
		clock:     b.clock,
		memory:    b.memory,
		allocator: b.allocator,
		out:       b.out,
		logger:    b.logger,
		multiply:  b.multiply,
	}

	if r.clock == nil {
		r.clock = timing.WallClock{}
	}

	if r.memory == nil {
		r.memory = sysmem.VirtualMemory{}
	}

	if r.allocator == nil {
		r.allocator = workbuf.NewRandomAllocator(nil)
	}

	if r.out == nil {
		r.out = io.Discard
	}

	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	r.logger = r.logger.With(zap.String("run_id", r.id))

	return r
}
