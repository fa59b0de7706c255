// Package dynamo drives simulations tick by tick.
//
// The package defines the small set of interfaces a host needs to advance a
// system and watch it evolve:
//
//   - [System]: anything with an Update method that advances one tick
//   - [Metric]: a scalar observed after every tick
//   - [Observer]: a callback after every tick
//   - [Simulator]: runs a system under a tick budget and/or a time box
//   - [Ensemble]: runs independent systems concurrently, one per seed
//
// # Example
//
//	w := forcegraph.NewWorld()
//	s := dynamo.New(w)
//	s.AddMetric(metrics.NewKineticEnergy(w))
//	result, _ := s.Run(ctx, dynamo.Config{Ticks: 500})
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Use one per goroutine, or the
// [Ensemble] type which builds a fresh system and simulator per run.
package dynamo
