// Package device discovers physical accelerators, probes their
// capabilities and opens logical execution contexts on them. The
// package talks to the platform driver through the Driver, Surface and
// LogicalDevice interfaces so that selection logic stays independent
// of the concrete Vulkan binding.
package device

// QueueFlags is a bitmask of queue family capabilities.
type QueueFlags uint32

// Queue family capability bits.
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
)

// QueueFamilyProperties describes one queue family on a physical device.
type QueueFamilyProperties struct {
	Flags      QueueFlags
	QueueCount uint32
}

// Extent2D is a two dimensional pixel extent.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// Format identifies a pixel format. Values match the corresponding
// VkFormat enumerants so the Vulkan implementation can cast directly.
type Format int32

// ColorSpace identifies a surface color space, matching VkColorSpaceKHR.
type ColorSpace int32

// PresentMode identifies a surface presentation mode, matching
// VkPresentModeKHR.
type PresentMode int32

// Formats, color spaces and present modes the selection helpers care about.
const (
	FormatB8G8R8A8SRGB Format = 50

	ColorSpaceSRGBNonlinear ColorSpace = 0

	PresentModeImmediate PresentMode = 0
	PresentModeMailbox   PresentMode = 1
	PresentModeFIFO      PresentMode = 2
)

// SurfaceFormat pairs a pixel format with a color space.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// SurfaceCapabilities describes what a (device, surface) pair can do.
// A MaxImageCount of zero means the driver imposes no upper bound.
type SurfaceCapabilities struct {
	MinImageCount uint32
	MaxImageCount uint32

	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
}

// QueueDescriptor requests queues from one family when opening a
// logical device.
type QueueDescriptor struct {
	FamilyIndex uint32
	Priorities  []float32
}

// OpenOptions parameterise the opening of a logical device.
type OpenOptions struct {
	Queues            []QueueDescriptor
	Extensions        []string
	Layers            []string
	EnableMemoryModel bool
}

// SwapchainOptions parameterise swapchain creation. When FamilyIndices
// holds two distinct families the swapchain images are shared
// concurrently between them, otherwise they stay exclusive.
type SwapchainOptions struct {
	Format        SurfaceFormat
	PresentMode   PresentMode
	Extent        Extent2D
	MinImageCount uint32
	FamilyIndices []uint32
}

// RenderPassOptions parameterise render pass creation.
type RenderPassOptions struct {
	ColorFormat Format
}

// Driver enumerates the physical accelerators the platform layer
// exposes. Implementations own the underlying API instance.
type Driver interface {
	// PhysicalDevices returns every accelerator visible to the driver,
	// in driver enumeration order.
	PhysicalDevices() ([]PhysicalDevice, error)

	// Destroy releases the underlying instance. Must only run after
	// every surface and logical device created through the driver has
	// been destroyed.
	Destroy()
}

// PhysicalDevice is a single accelerator visible to the driver.
// All query methods are pure: they never mutate device state.
type PhysicalDevice interface {
	// Name returns the human readable device name.
	Name() string

	// QueueFamilies lists the device queue families in index order.
	QueueFamilies() ([]QueueFamilyProperties, error)

	// Extensions lists the device extension names the device supports.
	Extensions() ([]string, error)

	// Open opens a logical execution context on the device.
	Open(opts OpenOptions) (LogicalDevice, error)
}

// Surface is a presentation surface bound to a platform window. Its
// query methods are pure and re-queryable at any time; results may
// change between calls when the window changes.
type Surface interface {
	// SupportsPresent reports whether the given queue family of the
	// device can present to this surface.
	SupportsPresent(dev PhysicalDevice, family uint32) (bool, error)

	// Capabilities returns the surface capabilities for the device.
	Capabilities(dev PhysicalDevice) (SurfaceCapabilities, error)

	// Formats returns the surface formats the device supports.
	Formats(dev PhysicalDevice) ([]SurfaceFormat, error)

	// PresentModes returns the present modes the device supports.
	PresentModes(dev PhysicalDevice) ([]PresentMode, error)

	// Destroy releases the surface handle.
	Destroy()
}

// LogicalDevice is an opened execution context on a physical device.
type LogicalDevice interface {
	// Queue retrieves the first queue of the given family. The family
	// must have been requested when the device was opened.
	Queue(family uint32) (Queue, error)

	// CreateSwapchain creates a swap buffer chain presenting to surface.
	CreateSwapchain(surface Surface, opts SwapchainOptions) (Swapchain, error)

	// CreateRenderPass creates a render pass targeting a single color
	// attachment in the given format.
	CreateRenderPass(opts RenderPassOptions) (RenderPass, error)

	// WaitIdle blocks until all work submitted to the device completed.
	WaitIdle() error

	// Destroy releases the logical device.
	Destroy()
}

// Queue is a command queue retrieved from a logical device.
type Queue interface {
	Family() uint32
}

// Swapchain is a set of presentable images cycled between rendering
// and display.
type Swapchain interface {
	ImageCount() int
	Destroy()
}

// RenderPass describes attachment usage for a rendering pass.
type RenderPass interface {
	Destroy()
}
