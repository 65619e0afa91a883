package core

import "github.com/devblok/ignis/device"

// Configuration defines the full configuration of a Core.
type Configuration struct {
	Application ApplicationConfiguration
	Instance    InstanceConfiguration
	Device      DeviceConfiguration
	Time        TimeConfiguration
}

// Version is a three part semantic version passed to the backend.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// ApplicationConfiguration identifies the application to the backend.
type ApplicationConfiguration struct {
	Name          string
	Version       Version
	Engine        string
	EngineVersion Version
	APIVersion    Version
}

// InstanceConfiguration is used to configure instance creation.
// Extension and layer names are plain strings, escaping for the native
// API happens at the backend boundary.
type InstanceConfiguration struct {
	// Extensions is requested on every instance, in addition to
	// whatever the caller passes to Initialise.
	Extensions []string

	// ValidationLayers is enabled when validation is requested.
	ValidationLayers []string
}

// DeviceConfiguration is used to configure device and queue family
// selection.
type DeviceConfiguration struct {
	// Required is the set of capabilities the chosen queue family
	// must support all of.
	Required device.CapabilityFlags

	// Extensions is enabled on the logical device.
	Extensions []string

	// ScanAllDevices considers every enumerated device instead of
	// only the first one.
	ScanAllDevices bool
}

// TimeConfiguration is used to configure time services.
type TimeConfiguration struct {
	// EventPollDelay is the event loop polling interval in
	// milliseconds. Zero means the 16ms default.
	EventPollDelay int
}

// DefaultConfiguration returns a Configuration with the stock
// application metadata, the standard validation layer and a
// graphics+compute queue requirement.
func DefaultConfiguration() Configuration {
	return Configuration{
		Application: ApplicationConfiguration{
			Name:          "Ignis",
			Version:       Version{Major: 1},
			Engine:        "Ignis",
			EngineVersion: Version{Major: 1},
			APIVersion:    Version{Major: 1},
		},
		Instance: InstanceConfiguration{
			ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		},
		Device: DeviceConfiguration{
			Required: device.Graphics | device.Compute,
		},
	}
}
