package core

import "github.com/devblok/ignis/device"

// QueueHandle is an opaque queue handle obtained from the backend.
type QueueHandle uintptr

// Backend abstracts the native graphics API that provides instances,
// devices and queues. Implementations own the native handles they
// create; the orchestrator only sequences the calls. All methods block
// until the native call completes.
type Backend interface {
	// Init loads and binds the native library entry points. It must be
	// called before any other method.
	Init() error

	// Name identifies the backend in reports and logs.
	Name() string

	// CreateInstance creates the top-level API connection with the
	// given application metadata, instance extensions and layers.
	CreateInstance(app ApplicationConfiguration, extensions, layers []string) error

	// AvailableLayers returns the names of the layers the backend can
	// enable on an instance.
	AvailableLayers() ([]string, error)

	// PhysicalDevices enumerates the devices reachable through the
	// current instance, in the backend's order. Queue families are
	// queried separately with QueueFamilies.
	PhysicalDevices() ([]device.PhysicalDevice, error)

	// QueueFamilies returns the queue families of the enumerated
	// device with the given ID, in backend order.
	QueueFamilies(id int) ([]device.QueueFamily, error)

	// CreateDevice creates a logical device on the enumerated device
	// with the given ID, with one queue on the given family.
	CreateDevice(id int, family uint32, extensions, layers []string) error

	// Queue returns the handle of a queue created on the logical
	// device.
	Queue(family, index uint32) (QueueHandle, error)

	// DestroyDevice destroys the logical device. Safe to call when no
	// device exists.
	DestroyDevice()

	// DestroyInstance destroys the instance. Safe to call when no
	// instance exists.
	DestroyInstance()
}
