package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Simulator struct {
	sys       System
	metrics   []Metric
	observers []Observer
}

func New(sys System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// System returns the system being driven.
func (s *Simulator) System() System { return s.sys }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Metrics: make(map[string]float64),
		History: make(map[string][]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.History[m.Name()] = make([]float64, 0, cfg.Ticks)
	}

	var deadline time.Time
	start := time.Now()
	if cfg.Duration > 0 {
		deadline = start.Add(cfg.Duration)
	}

	slog.Debug("simulation started", "ticks", cfg.Ticks, "duration", cfg.Duration)

	for tick := 0; cfg.Ticks <= 0 || tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			s.collect(result)
			return result, fmt.Errorf("%w at tick %d: %w", ErrCanceled, tick, ctx.Err())
		default:
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}

		s.sys.Update()
		result.TicksTaken++

		if cfg.ValidateState {
			if v, ok := s.sys.(Validator); ok && !v.Valid() {
				result.Errors = append(result.Errors, SimError{Tick: tick, Wrapped: ErrInvalidState})
				break
			}
		}

		settled := false
		for _, m := range s.metrics {
			m.Observe(tick)
			val := m.Value()
			result.History[m.Name()] = append(result.History[m.Name()], val)
			if cfg.SettleMetric != "" && m.Name() == cfg.SettleMetric && val < cfg.SettleThreshold {
				settled = true
			}
		}
		for _, obs := range s.observers {
			obs.OnTick(tick)
		}

		if settled {
			result.Settled = true
			break
		}
	}

	result.Elapsed = time.Since(start)
	s.collect(result)

	slog.Debug("simulation finished", "ticks", result.TicksTaken, "elapsed", result.Elapsed, "settled", result.Settled)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %v", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Ticks == 0 && cfg.Duration == 0 {
		return ErrNoBound
	}
	if cfg.SettleMetric != "" && cfg.SettleThreshold <= 0 {
		return fmt.Errorf("%w: settle threshold must be positive", ErrInvalidConfig)
	}
	return nil
}
