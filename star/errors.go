package star

import "errors"

var (
	// ErrShutdown is returned to any caller waiting on a Command reply
	// once the star loop has exited.
	ErrShutdown = errors.New("star: shut down")

	// ErrNotFound is returned by the resolver when no star in the mesh
	// claims a point and Central has no record of it either.
	ErrNotFound = errors.New("star: resource record not found")

	// ErrNoRoute is returned when a destination star is known but no
	// lane has path knowledge of it and windfinding has not (yet)
	// produced one.
	ErrNoRoute = errors.New("star: no route to destination star")

	// ErrUnknownLane is returned when a command names a remote star or
	// proto-lane the registry has no record of.
	ErrUnknownLane = errors.New("star: unknown lane")
)
