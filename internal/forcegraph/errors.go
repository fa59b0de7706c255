package forcegraph

import "errors"

var (
	// ErrSelfConnection is returned when a node is connected to itself.
	ErrSelfConnection = errors.New("forcegraph: cannot connect a node to itself")

	// ErrUnknownNode is returned for a NodeID that is not in the world.
	ErrUnknownNode = errors.New("forcegraph: unknown node")
)
