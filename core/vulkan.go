package core

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/devblok/ignis/device"
	vk "github.com/vulkan-go/vulkan"
)

// NewVulkanBackend creates a not yet initialised Vulkan API backend.
// procAddr is the vkGetInstanceProcAddr pointer obtained from the
// windowing library, or nil to load the default one from the system
// Vulkan loader.
func NewVulkanBackend(procAddr unsafe.Pointer) Backend {
	return &VulkanBackend{
		procAddr: procAddr,
	}
}

// VulkanBackend drives a Vulkan implementation of the API
type VulkanBackend struct {
	procAddr unsafe.Pointer

	instance        vk.Instance
	physicalDevices []vk.PhysicalDevice

	device vk.Device
	queue  vk.Queue
}

// Init implements interface
func (v *VulkanBackend) Init() error {
	if v.procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return errors.New("vk.InstanceProcAddr(): " + err.Error())
		}
	} else {
		vk.SetGetInstanceProcAddr(v.procAddr)
	}

	if err := vk.Init(); err != nil {
		return errors.New("vk.Init(): " + err.Error())
	}
	return nil
}

// Name implements interface
func (v *VulkanBackend) Name() string {
	return "vulkan"
}

// AvailableLayers implements interface
func (v *VulkanBackend) AvailableLayers() ([]string, error) {
	var layerCount uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&layerCount, nil)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}
	layerProperties := make([]vk.LayerProperties, layerCount)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&layerCount, layerProperties)); err != nil {
		return nil, errors.New("vk.EnumerateInstanceLayerProperties(): " + err.Error())
	}

	layers := make([]string, 0, layerCount)
	for _, layer := range layerProperties {
		layer.Deref()
		layers = append(layers, vk.ToString(layer.LayerName[:]))
	}
	return layers, nil
}

// CreateInstance implements interface
func (v *VulkanBackend) CreateInstance(app ApplicationConfiguration, extensions, layers []string) error {
	if len(layers) > 0 {
		extensions = append(extensions, "VK_EXT_debug_report")
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         makeVersion(app.APIVersion),
		ApplicationVersion: makeVersion(app.Version),
		EngineVersion:      makeVersion(app.EngineVersion),
		PApplicationName:   safeString(app.Name),
		PEngineName:        safeString(app.Engine),
	}

	/* Create instance */
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	v.instance = instance
	return nil
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices, nil
}

// PhysicalDevices implements interface
func (v *VulkanBackend) PhysicalDevices() ([]device.PhysicalDevice, error) {
	physicalDevices, err := enumerateDevices(v.instance)
	if err != nil {
		return nil, errors.New("core.enumerateDevices(): " + err.Error())
	}
	v.physicalDevices = physicalDevices

	pdi := make([]device.PhysicalDevice, len(physicalDevices))
	for i := 0; i < len(physicalDevices); i++ {
		// Get extension info
		var numDeviceExtensions uint32
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevices[i], "", &numDeviceExtensions, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
		if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevices[i], "", &numDeviceExtensions, deviceExt)); err != nil {
			pdi[i].Invalid = true
		}
		for _, ext := range deviceExt {
			ext.Deref()
			pdi[i].Extensions = append(pdi[i].Extensions, vk.ToString(ext.ExtensionName[:]))
		}

		// Get layers info
		var numDeviceLayers uint32
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(physicalDevices[i], &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(physicalDevices[i], &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(physicalDevices[i], &memoryProperties)
		memoryProperties.Deref()
		for iMem := (uint32)(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory = pdi[i].Memory + uint64(memoryProperties.MemoryHeaps[iMem].Size)
		}

		// Get general device info
		var physicalDeviceProperties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(physicalDevices[i], &physicalDeviceProperties)
		physicalDeviceProperties.Deref()
		pdi[i].ID = i
		pdi[i].DeviceID = (int)(physicalDeviceProperties.DeviceID)
		pdi[i].VendorID = (int)(physicalDeviceProperties.VendorID)
		pdi[i].Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
		pdi[i].DriverVersion = (int)(physicalDeviceProperties.DriverVersion)
	}
	return pdi, nil
}

// QueueFamilies implements interface
func (v *VulkanBackend) QueueFamilies(id int) ([]device.QueueFamily, error) {
	if id < 0 || id >= len(v.physicalDevices) {
		return nil, fmt.Errorf("no physical device with id %d", id)
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(v.physicalDevices[id], &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(v.physicalDevices[id], &queueFamilyCount, queueFamilies)

	families := make([]device.QueueFamily, queueFamilyCount)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		families[i] = device.QueueFamily{
			Index: i,
			Flags: capabilityFlags(queueFamilies[i].QueueFlags),
			Count: queueFamilies[i].QueueCount,
		}
	}
	return families, nil
}

func capabilityFlags(flags vk.QueueFlags) device.CapabilityFlags {
	var caps device.CapabilityFlags
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		caps |= device.Graphics
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		caps |= device.Compute
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		caps |= device.Transfer
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		caps |= device.SparseBinding
	}
	return caps
}

// CreateDevice implements interface
func (v *VulkanBackend) CreateDevice(id int, family uint32, extensions, layers []string) error {
	if id < 0 || id >= len(v.physicalDevices) {
		return fmt.Errorf("no physical device with id %d", id)
	}
	physicalDevice := v.physicalDevices[id]

	if missing := missingDeviceExtensions(physicalDevice, extensions); len(missing) > 0 {
		return errors.New("vk.CreateDevice(): missing device extensions: " + strings.Join(missing, ", "))
	}

	/* Logical device setup */
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}

	var vkDevice vk.Device
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}
	if err := vk.Error(vk.CreateDevice(physicalDevice, &dci, nil, &vkDevice)); err != nil {
		return errors.New("vk.CreateDevice(): " + err.Error())
	}

	v.device = vkDevice
	return nil
}

func missingDeviceExtensions(physicalDevice vk.PhysicalDevice, want []string) []string {
	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &numDeviceExtensions, nil)); err != nil {
		return want
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(physicalDevice, "", &numDeviceExtensions, deviceExt)); err != nil {
		return want
	}

	available := make([]string, 0, numDeviceExtensions)
	for _, ext := range deviceExt {
		ext.Deref()
		available = append(available, vk.ToString(ext.ExtensionName[:]))
	}

	var missing []string
	for _, w := range want {
		if !containsString(available, w) {
			missing = append(missing, w)
		}
	}
	return missing
}

// Queue implements interface
func (v *VulkanBackend) Queue(family, index uint32) (QueueHandle, error) {
	if v.device == nil {
		return 0, errors.New("vk.GetDeviceQueue(): no logical device")
	}

	var deviceQueue vk.Queue
	vk.GetDeviceQueue(v.device, family, index, &deviceQueue)

	v.queue = deviceQueue
	return QueueHandle(uintptr(unsafe.Pointer(deviceQueue))), nil
}

// DestroyDevice implements interface
func (v *VulkanBackend) DestroyDevice() {
	if v.device == nil {
		return
	}
	v.queue = nil
	vk.DestroyDevice(v.device, nil)
	v.device = nil
}

// DestroyInstance implements interface
func (v *VulkanBackend) DestroyInstance() {
	if v.instance == nil {
		return
	}
	v.physicalDevices = nil
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}

func makeVersion(v Version) uint32 {
	return vk.MakeVersion(int(v.Major), int(v.Minor), int(v.Patch))
}
