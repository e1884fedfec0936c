package logger

import (
	"time"

	"go.uber.org/zap"
)

// DefaultFrameSample is the number of frames summarized per timing line.
const DefaultFrameSample = 120

// FrameTimer collects frame durations and logs their average and maximum at
// debug level once per sample. The viewer redraws only on demand, so a sample
// can span a long time.
type FrameTimer struct {
	sample int
	count  int
	total  time.Duration
	max    time.Duration
}

// NewFrameTimer creates a timer that reports every sample frames. Values
// below 1 report every frame.
func NewFrameTimer(sample int) *FrameTimer {
	if sample < 1 {
		sample = 1
	}
	return &FrameTimer{sample: sample}
}

// Observe records one frame and reports whether a summary was logged.
func (t *FrameTimer) Observe(d time.Duration) bool {
	t.count++
	t.total += d
	if d > t.max {
		t.max = d
	}
	if t.count < t.sample {
		return false
	}

	Log.Debug("frame timing",
		zap.Int("frames", t.count),
		zap.Duration("avg", t.total/time.Duration(t.count)),
		zap.Duration("max", t.max),
	)
	t.count, t.total, t.max = 0, 0, 0
	return true
}

// Pending returns the number of frames recorded since the last summary.
func (t *FrameTimer) Pending() int {
	return t.count
}
