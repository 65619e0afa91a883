package device

import "errors"

// Selection failures. Both are terminal for the process: device and
// queue topology does not change without external hardware or driver
// changes.
var (
	ErrNoDevices     = errors.New("no physical devices to select from")
	ErrNoQueueFamily = errors.New("no queue family satisfies the required capabilities")
)

// Selection is the outcome of device selection: the chosen device and
// the index of the queue family to create queues on.
type Selection struct {
	Device      PhysicalDevice
	QueueFamily uint32
}

// Selector selects a physical device and queue family against a set of
// required capabilities. Required must be non-empty. By default only
// the first enumerated device is considered; set ScanAllDevices to fall
// through to later devices when the first has no compatible family.
type Selector struct {
	Required       CapabilityFlags
	ScanAllDevices bool
}

// Select picks the first queue family whose capabilities are a superset
// of Required, scanning devices in the order given. It is a pure
// function of its inputs and never mutates the descriptors.
func (s Selector) Select(devices []PhysicalDevice) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, ErrNoDevices
	}

	considered := devices[:1]
	if s.ScanAllDevices {
		considered = devices
	}

	for _, dev := range considered {
		for _, family := range dev.QueueFamilies {
			if family.Flags.Has(s.Required) {
				return Selection{Device: dev, QueueFamily: family.Index}, nil
			}
		}
	}
	return Selection{}, ErrNoQueueFamily
}

// Select selects with the default first-device-only policy.
func Select(devices []PhysicalDevice, required CapabilityFlags) (Selection, error) {
	return Selector{Required: required}.Select(devices)
}
