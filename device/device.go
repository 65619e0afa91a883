package device

import "strings"

// CapabilityFlags is a bitmask of operation categories a queue family
// supports.
type CapabilityFlags uint32

// Capability bits a queue family can be required to support.
const (
	Graphics CapabilityFlags = 1 << iota
	Compute
	Transfer
	SparseBinding
)

// Has reports whether every capability in want is present in f.
func (f CapabilityFlags) Has(want CapabilityFlags) bool {
	return f&want == want
}

func (f CapabilityFlags) String() string {
	var parts []string
	if f&Graphics != 0 {
		parts = append(parts, "graphics")
	}
	if f&Compute != 0 {
		parts = append(parts, "compute")
	}
	if f&Transfer != 0 {
		parts = append(parts, "transfer")
	}
	if f&SparseBinding != 0 {
		parts = append(parts, "sparse")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// QueueFamily describes one queue family on a physical device.
// Index is assigned by the backend and stable for the lifetime
// of the enumeration.
type QueueFamily struct {
	Index uint32
	Flags CapabilityFlags
	Count uint32
}

// PhysicalDevice describes available physical properties of a device.
// ID is the device's position in the backend's enumeration order and
// is what selection and logical device creation identify a device by.
type PhysicalDevice struct {
	ID            int
	VendorID      int
	DeviceID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        uint64
	QueueFamilies []QueueFamily
}

// Family returns the queue family with the given backend-assigned
// index, or false when the device has no such family.
func (d PhysicalDevice) Family(index uint32) (QueueFamily, bool) {
	for _, family := range d.QueueFamilies {
		if family.Index == index {
			return family, true
		}
	}
	return QueueFamily{}, false
}
