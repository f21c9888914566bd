package tracker

import (
	"math/rand/v2"
	"sync"
)

// DefaultMaxStep is the upper bound of the default random progress increment.
const DefaultMaxStep = 10.0

// Stepper returns the progress increment of a tick.
type Stepper interface {
	Step() float64
}

// StepperFunc is a helper to use functions as steppers.
type StepperFunc func() float64

// Step satisfies Stepper interface.
func (f StepperFunc) Step() float64 { return f() }

// NewRandomStepper returns a stepper with uniform increments in [0, max).
func NewRandomStepper(max float64) Stepper {
	return StepperFunc(func() float64 { return rand.Float64() * max })
}

// FixedStepper always increments the same amount.
type FixedStepper float64

// Step satisfies Stepper interface.
func (f FixedStepper) Step() float64 { return float64(f) }

// SequenceStepper replays a list of increments, repeating the last one
// when exhausted. An empty sequence never advances.
type SequenceStepper struct {
	mu    sync.Mutex
	steps []float64
	next  int
}

// NewSequenceStepper returns a new SequenceStepper.
func NewSequenceStepper(steps ...float64) *SequenceStepper {
	return &SequenceStepper{steps: steps}
}

// Step satisfies Stepper interface.
func (s *SequenceStepper) Step() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return 0
	}
	if s.next >= len(s.steps) {
		return s.steps[len(s.steps)-1]
	}
	step := s.steps[s.next]
	s.next++
	return step
}
