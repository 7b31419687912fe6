package device

// SwapchainExtensionName is the device extension required for
// presenting to a surface.
const SwapchainExtensionName = "VK_KHR_swapchain"

// MemoryModelExtensionName enables the cross-queue memory model
// consistency guarantees the renderer relies on.
const MemoryModelExtensionName = "VK_KHR_vulkan_memory_model"

// Configuration carries the device level selection and creation
// options. It is threaded explicitly into Select and OpenLogical
// rather than read from package state.
type Configuration struct {
	// RequiredExtensions must all be supported by a candidate device
	// for it to be selected, and are enabled on the logical device.
	RequiredExtensions []string

	// EnabledLayers are the validation layer names enabled on the
	// logical device, in order.
	EnabledLayers []string

	// EnableMemoryModel forces the memory model consistency feature on
	// when opening the logical device.
	EnableMemoryModel bool
}

// DefaultConfiguration returns the baseline device configuration:
// swap presentation support, no layers, memory model on.
func DefaultConfiguration() Configuration {
	return Configuration{
		RequiredExtensions: []string{SwapchainExtensionName},
		EnableMemoryModel:  true,
	}
}

// InstanceConfiguration configures driver instance creation.
type InstanceConfiguration struct {
	AppName    string
	DebugMode  bool
	Extensions []string
	Layers     []string
}
