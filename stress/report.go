package stress

import (
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A RunReport summarizes a finished run.
type RunReport struct {
	ID               string
	Mode             Mode
	Duration         time.Duration
	StartTime        time.Time
	Elapsed          time.Duration
	Iterations       uint64
	AbsorbedFailures uint64

	// Memory mode only.
	Available uint64
	Side      int
}

func (r *RunReport) finish(now time.Time) {
	r.Elapsed = now.Sub(r.StartTime)
}

// MarshalLogObject lets a RunReport be logged as a zap object.
func (r RunReport) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", r.ID)
	enc.AddString("mode", string(r.Mode))
	enc.AddDuration("duration", r.Duration)
	enc.AddDuration("elapsed", r.Elapsed)
	enc.AddUint64("iterations", r.Iterations)

	if r.Mode == ModeMemory {
		enc.AddString("available", humanize.Bytes(r.Available))
		enc.AddInt("side", r.Side)
		enc.AddUint64("absorbed_failures", r.AbsorbedFailures)
	}

	return nil
}

// Field returns the report as a zap field.
func (r RunReport) Field() zap.Field {
	return zap.Object("report", r)
}
