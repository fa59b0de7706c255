package dynamo

import "time"

// System is advanced one tick at a time.
type System interface {
	Update()
}

// Validator is implemented by systems that can detect a diverged state.
type Validator interface {
	Valid() bool
}

type Metric interface {
	Name() string
	Observe(tick int)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tick int)

func (f ObserverFunc) OnTick(tick int) { f(tick) }

// Config bounds a run. At least one of Ticks and Duration must be positive;
// when both are set the run stops at whichever comes first.
type Config struct {
	Ticks    int
	Duration time.Duration

	// ValidateState stops the run when a Validator system reports an invalid state.
	ValidateState bool

	// SettleMetric names a metric that ends the run early once its value
	// drops below SettleThreshold.
	SettleMetric    string
	SettleThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Ticks:         500,
		ValidateState: true,
	}
}

type Result struct {
	TicksTaken int
	Elapsed    time.Duration
	Settled    bool
	Metrics    map[string]float64
	History    map[string][]float64
	Errors     []error
}
