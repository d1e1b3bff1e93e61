package compositor

import "errors"

// Submission and compositing errors.
var (
	// ErrInvalidInstance is returned when a submitted instance fails
	// validation (negative extent, non-finite field, layer out of range).
	ErrInvalidInstance = errors.New("compositor: invalid instance")

	// ErrBatchTooLarge is returned when a batch exceeds the configured
	// per-frame instance limit.
	ErrBatchTooLarge = errors.New("compositor: batch exceeds instance limit")

	// ErrNilTarget is returned when compositing to a nil render target.
	ErrNilTarget = errors.New("compositor: nil render target")

	// ErrNilRenderer is returned when compositing without a renderer.
	ErrNilRenderer = errors.New("compositor: nil renderer")

	// ErrDeviceLost is returned when the GPU backend reports a device
	// failure. The frame is lost; the host may retry next frame.
	ErrDeviceLost = errors.New("compositor: GPU device lost")
)
