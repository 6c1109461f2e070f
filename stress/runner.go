// Package stress runs bounded CPU and memory stress loops.
package stress

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sarchlab/stress/sysmem"
	"github.com/sarchlab/stress/timing"
	"github.com/sarchlab/stress/workbuf"
)

const (
	cpuToken        = "yes\n"
	generateToken   = "Generating matrix\n"
	multiplyToken   = "Multiplying matrix\n"
	timeoutToken    = "Timeout\n"
	announcementFmt = "Creating a matrix with %dx%d elements\n"
)

// A Runner consumes CPU or memory until a deadline passes. All output goes to
// a single sink owned by the Runner.
type Runner struct {
	id        string
	clock     timing.Clock
	memory    sysmem.Querier
	allocator workbuf.Allocator
	out       io.Writer
	logger    *zap.Logger
	multiply  bool
}

// ID returns the identifier of the runner, shared by all its reports.
func (r *Runner) ID() string {
	return r.id
}

// Run stresses the resource selected by mode for duration d.
func (r *Runner) Run(mode Mode, d time.Duration) (RunReport, error) {
	switch mode {
	case ModeCPU:
		return r.CPUStress(d), nil
	case ModeMemory:
		return r.MemoryStress(d)
	default:
		return RunReport{}, fmt.Errorf("unknown stress mode %q", mode)
	}
}

// CPUStress writes a constant token in a busy loop until d has elapsed.
func (r *Runner) CPUStress(d time.Duration) RunReport {
	report := r.startReport(ModeCPU, d)
	deadline := timing.NewDeadline(report.StartTime, d)

	for {
		now := r.clock.Now()
		if deadline.Passed(now) {
			report.finish(now)
			return report
		}

		r.write(cpuToken)
		report.Iterations++
	}
}

// MemoryStress allocates a fresh work buffer sized from the available system
// memory on every iteration until d has elapsed.
//
// Failing to allocate a buffer is the expected outcome under memory pressure,
// so AllocationErrors are counted and the loop carries on. Any other error
// ends the run.
func (r *Runner) MemoryStress(d time.Duration) (RunReport, error) {
	report := r.startReport(ModeMemory, d)
	deadline := timing.NewDeadline(report.StartTime, d)

	available, err := r.memory.Available()
	if err != nil {
		report.finish(r.clock.Now())
		return report, fmt.Errorf("memory stress: %w", err)
	}

	n := sysmem.SideLength(available)
	report.Available = available
	report.Side = n

	r.logger.Info("sizing work buffer",
		zap.String("available", humanize.Bytes(available)),
		zap.Int("side", n))
	r.write(fmt.Sprintf(announcementFmt, n, n))

	for {
		now := r.clock.Now()
		if deadline.Passed(now) {
			report.finish(now)
			break
		}

		report.Iterations++

		err := r.generate(n)
		if err == nil {
			continue
		}

		var allocErr *workbuf.AllocationError
		if !errors.As(err, &allocErr) {
			report.finish(r.clock.Now())
			return report, fmt.Errorf("memory stress: %w", err)
		}

		report.AbsorbedFailures++
		r.logger.Debug("allocation failure absorbed",
			zap.Uint64("iteration", report.Iterations),
			zap.Error(err))
	}

	r.write(timeoutToken)

	return report, nil
}

func (r *Runner) generate(n int) error {
	r.write(generateToken)

	m, err := r.allocator.Allocate(n)
	if err != nil {
		return err
	}

	if !r.multiply {
		return nil
	}

	r.write(multiplyToken)

	_, err = r.allocator.Multiply(m)

	return err
}

func (r *Runner) startReport(mode Mode, d time.Duration) RunReport {
	return RunReport{
		ID:        r.id,
		Mode:      mode,
		Duration:  d,
		StartTime: r.clock.Now(),
	}
}

// write ignores errors. A stress loop keeps running even if nobody reads its
// output.
func (r *Runner) write(s string) {
	_, _ = io.WriteString(r.out, s)
}
