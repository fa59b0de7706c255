// Package viz provides terminal views for graphsim runs.
//
//   - [Monitor]: a Bubble Tea model that ticks a world live and plots its
//     kinetic energy
//   - [Panel]: a bordered table of labelled values
//   - Theme selection with 3 built-in color schemes
//
// Nothing here draws the graph itself; use the export package for that.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	S     - Single tick while paused
//	A     - Grow the graph by 50 nodes
//	G     - Put ungrouped nodes into random groups
//	H     - Ungroup every node
//	L     - Lock a random half of the nodes
//	K     - Unlock every node
//	T     - Cycle color themes
//	Q     - Quit
package viz
