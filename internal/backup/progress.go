package backup

// ProgressFunc receives the fraction of an encode or import completed so
// far, in [0, 1]. Calls are made on the engine's goroutine.
type ProgressFunc func(fraction float64)

// progress forwards fixed checkpoints to a ProgressFunc, clamped to [0, 1]
// and never decreasing.
type progress struct {
	fn   ProgressFunc
	last float64
}

func newProgress(fn ProgressFunc) *progress {
	return &progress{fn: fn, last: -1}
}

func (p *progress) report(fraction float64) {
	if p == nil || p.fn == nil {
		return
	}
	fraction = min(max(fraction, 0), 1)
	if fraction < p.last {
		return
	}
	p.last = fraction
	p.fn(fraction)
}
