package render

import "errors"

var (
	// ErrInvalidCamera indicates a camera that yields zero rays or a ray
	// grid whose arrays disagree in shape.
	ErrInvalidCamera = errors.New("render: camera produced an invalid ray grid")

	// ErrDeviceMismatch indicates that the replicated model state does not
	// line up with the active device topology.
	ErrDeviceMismatch = errors.New("render: replicated state does not match device count")

	// ErrRender indicates a failed scene-model invocation. Model failures
	// are assumed deterministic given identical inputs, so there is no retry.
	ErrRender = errors.New("render: scene model invocation failed")
)
