package sim

// DefaultStep is one simulated hour.
const DefaultStep = float32(1.0 / 24.0)

// Clock gates simulated time. Each host timer callback advances time by
// one Step if the clock is active and does nothing otherwise.
type Clock struct {
	Active bool
	Step   float32 // days per tick

	// Days is total elapsed simulated time.
	Days float64
	// Animation drives the star's procedural shading.
	Animation float32
}

// animationRate is how far the star shader parameter moves per active tick.
const animationRate = 0.01

func NewClock() Clock {
	return Clock{Active: true, Step: DefaultStep}
}

func (c *Clock) Toggle() bool {
	c.Active = !c.Active
	return c.Active
}

func (c *Clock) Faster() float32 {
	c.Step *= 2
	return c.Step
}

func (c *Clock) Slower() float32 {
	c.Step *= 0.5
	return c.Step
}

// advance records one tick and returns the step to apply.
func (c *Clock) advance() float32 {
	c.Days += float64(c.Step)
	c.Animation += animationRate
	return c.Step
}
