package viewer

// FrameTimer counts frames and reports the mean frame time once per period.
type FrameTimer struct {
	period float64
	last   float64
	frames int
	primed bool
}

// NewFrameTimer returns a timer reporting every period seconds.
func NewFrameTimer(period float64) *FrameTimer {
	return &FrameTimer{period: period}
}

// Tick records one frame at time now (seconds). When a full period has
// elapsed it returns the mean milliseconds per frame and true, then starts
// the next period.
func (t *FrameTimer) Tick(now float64) (msPerFrame float64, ok bool) {
	if !t.primed {
		t.last = now
		t.primed = true
	}
	t.frames++
	elapsed := now - t.last
	if elapsed < t.period {
		return 0, false
	}
	msPerFrame = elapsed * 1000 / float64(t.frames)
	t.frames = 0
	t.last += t.period
	return msPerFrame, true
}
