package core

import "errors"

// Initialisation failures. Every value is terminal: once Initialise
// returns one of these the core is in its failed state and will not
// retry. Selection failures from the device package pass through
// unchanged, so callers match all of them with errors.Is.
var (
	ErrAlreadyInitialised    = errors.New("already initialised")
	ErrBackendUnsupported    = errors.New("backend is unsupported or exposes no devices")
	ErrValidationUnavailable = errors.New("requested validation layers are not available")
	ErrInstanceCreation      = errors.New("instance creation failed")
	ErrDeviceCreation        = errors.New("logical device creation failed")
)
