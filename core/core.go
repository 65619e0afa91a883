package core

import (
	"errors"
	"fmt"

	"github.com/devblok/ignis/device"
)

// State tracks how far a Core has progressed through initialisation.
type State int

// Core lifecycle states. Initialise moves through them in order and
// lands on StateReady; any failure lands on StateFailed, which holds
// no backend resources.
const (
	StateUninitialised State = iota
	StateInstanceCreated
	StateDeviceSelected
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialised:
		return "uninitialised"
	case StateInstanceCreated:
		return "instance created"
	case StateDeviceSelected:
		return "device selected"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// NewCore creates an uninitialised Core on the given backend. The Core
// owns every handle the backend acquires on its behalf; it is not safe
// for concurrent use.
func NewCore(backend Backend, cfg Configuration) *Core {
	return &Core{
		backend:       backend,
		configuration: cfg,
	}
}

// Core sequences the backend calls that take a machine from nothing to
// a usable logical device and queue, and tears them down again.
type Core struct {
	backend       Backend
	configuration Configuration

	state   State
	failure error

	selection device.Selection
	queue     QueueHandle
}

// Initialise runs the full bootstrap sequence: bind the backend, check
// validation layers when requested, create the instance, select a
// device and queue family, create the logical device and retrieve its
// queue. The required extensions are requested on the instance in
// addition to the configured ones. It returns nil on success or exactly
// one of the package error values; every failure releases whatever was
// acquired before it.
func (c *Core) Initialise(requiredExtensions []string, enableValidation bool) error {
	if c.state != StateUninitialised {
		return ErrAlreadyInitialised
	}

	if err := c.backend.Init(); err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrBackendUnsupported, err))
	}

	var layers []string
	if enableValidation {
		available, err := c.backend.AvailableLayers()
		if err != nil {
			return c.fail(fmt.Errorf("%w: %v", ErrValidationUnavailable, err))
		}
		for _, want := range c.configuration.Instance.ValidationLayers {
			if !containsString(available, want) {
				return c.fail(fmt.Errorf("%w: %s", ErrValidationUnavailable, want))
			}
		}
		layers = c.configuration.Instance.ValidationLayers
	}

	extensions := append([]string{}, c.configuration.Instance.Extensions...)
	extensions = append(extensions, requiredExtensions...)

	if err := c.backend.CreateInstance(c.configuration.Application, extensions, layers); err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrInstanceCreation, err))
	}
	c.state = StateInstanceCreated

	devices, err := c.backend.PhysicalDevices()
	if err != nil {
		c.backend.DestroyInstance()
		return c.fail(fmt.Errorf("%w: %v", ErrBackendUnsupported, err))
	}
	for i := range devices {
		families, err := c.backend.QueueFamilies(devices[i].ID)
		if err != nil {
			c.backend.DestroyInstance()
			return c.fail(fmt.Errorf("%w: %v", ErrBackendUnsupported, err))
		}
		devices[i].QueueFamilies = families
	}

	selector := device.Selector{
		Required:       c.configuration.Device.Required,
		ScanAllDevices: c.configuration.Device.ScanAllDevices,
	}
	selection, err := selector.Select(devices)
	if err != nil {
		c.backend.DestroyInstance()
		if errors.Is(err, device.ErrNoDevices) {
			return c.fail(fmt.Errorf("%w: %v", ErrBackendUnsupported, err))
		}
		return c.fail(err)
	}
	c.selection = selection
	c.state = StateDeviceSelected

	if err := c.backend.CreateDevice(selection.Device.ID, selection.QueueFamily, c.configuration.Device.Extensions, layers); err != nil {
		c.backend.DestroyInstance()
		return c.fail(fmt.Errorf("%w: %v", ErrDeviceCreation, err))
	}

	queue, err := c.backend.Queue(selection.QueueFamily, 0)
	if err != nil {
		c.backend.DestroyDevice()
		c.backend.DestroyInstance()
		return c.fail(fmt.Errorf("%w: %v", ErrDeviceCreation, err))
	}
	c.queue = queue
	c.state = StateReady

	return nil
}

// Destroy releases the logical device and the instance in reverse order
// of acquisition and returns the Core to its uninitialised state. It is
// safe to call in any state and more than once; states that hold
// nothing make no backend calls.
func (c *Core) Destroy() {
	if c == nil {
		return
	}
	if c.state == StateReady {
		c.backend.DestroyDevice()
		c.backend.DestroyInstance()
	}
	c.state = StateUninitialised
	c.failure = nil
	c.selection = device.Selection{}
	c.queue = 0
}

// State returns the current lifecycle state.
func (c *Core) State() State {
	return c.state
}

// Err returns the failure that moved the Core into StateFailed, or nil.
func (c *Core) Err() error {
	return c.failure
}

// Selection returns the device and queue family chosen during
// initialisation. Only meaningful from StateDeviceSelected onwards.
func (c *Core) Selection() device.Selection {
	return c.selection
}

// Queue returns the handle of the queue retrieved during
// initialisation. Only meaningful in StateReady.
func (c *Core) Queue() QueueHandle {
	return c.queue
}

func (c *Core) fail(err error) error {
	c.state = StateFailed
	c.failure = err
	return err
}
