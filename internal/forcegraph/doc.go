// Package forcegraph implements a 3D force-directed graph layout.
//
// A [World] owns an arena of [Node] values addressed by [NodeID] and the
// [Edge] list connecting them. Each call to [World.Update] advances the layout
// by one tick:
//
//   - every node integrates the acceleration gathered on the previous tick,
//     then clears it;
//   - an [Octree] sized to the current extent is rebuilt from all nodes;
//   - in parallel, each node gathers Barnes-Hut repulsion, attraction toward
//     its group origin (or the world origin) and spring forces along its edges.
//
// Groups live in a [GroupTable] owned by the host; nodes refer to them by ID.
//
// # Example
//
//	w := forcegraph.NewWorld(forcegraph.WithGroups(table))
//	a := w.Add(forcegraph.Node{Location: r3.Vec{X: 1}})
//	b := w.Add(forcegraph.Node{Location: r3.Vec{X: 2}})
//	if _, err := w.Connect(a, b); err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    w.Update()
//	}
//	loc, _ := w.Location(a)
//
// # Thread Safety
//
// All World methods are safe for concurrent use. A single mutex is held for
// the whole of Update, so structural changes and reads wait for the tick in
// progress to finish.
package forcegraph
