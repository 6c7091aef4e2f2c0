package core

import "time"

// stepper turns wall-clock time into a count of fixed-length ticks. Time
// beyond max ticks per call is dropped so a stall does not cause a burst.
type stepper struct {
	interval time.Duration
	max      int
	last     time.Time
	pending  time.Duration
}

func newStepper(interval time.Duration, max int) *stepper {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &stepper{interval: interval, max: max}
}

func (s *stepper) reset(now time.Time) {
	s.last = now
	s.pending = 0
}

// due returns the ticks to run at now.
func (s *stepper) due(now time.Time) int {
	s.pending += now.Sub(s.last)
	s.last = now

	n := int(s.pending / s.interval)
	s.pending -= time.Duration(n) * s.interval
	if n > s.max {
		n = s.max
		s.pending = 0
	}
	return n
}
