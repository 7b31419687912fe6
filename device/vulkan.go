package device

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DefaultApplicationInfo identifies the engine to the driver.
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 1, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("Gravik"),
	PEngineName:        safeString("Gravik"),
}

// NewVulkanDriver initialises the Vulkan loader, creates an instance
// and wraps it as a Driver. procAddr is the platform supplied
// vkGetInstanceProcAddr pointer; pass nil to use the system loader.
func NewVulkanDriver(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg InstanceConfiguration) (*VulkanDriver, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, "VK_LAYER_KHRONOS_validation")
	}

	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	vk.InitInstance(instance)

	return &VulkanDriver{instance: instance}, nil
}

// VulkanDriver implements Driver over a Vulkan instance.
type VulkanDriver struct {
	instance vk.Instance
}

// Instance exposes the raw instance handle for platform surface
// creation.
func (d *VulkanDriver) Instance() vk.Instance {
	return d.instance
}

// PhysicalDevices implements Driver.
func (d *VulkanDriver) PhysicalDevices() ([]PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(d.instance, &deviceCount, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	handles := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(d.instance, &deviceCount, handles)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}

	devices := make([]PhysicalDevice, len(handles))
	for i, handle := range handles {
		devices[i] = &vulkanPhysicalDevice{handle: handle}
	}
	return devices, nil
}

// Destroy implements Driver.
func (d *VulkanDriver) Destroy() {
	vk.DestroyInstance(d.instance, nil)
	d.instance = nil
}

// NewVulkanSurface wraps a platform created surface handle (for
// example from SDL's VulkanCreateSurface) as a Surface.
func NewVulkanSurface(drv *VulkanDriver, handle unsafe.Pointer) Surface {
	return &vulkanSurface{
		instance: drv.instance,
		surface:  vk.SurfaceFromPointer(uintptr(handle)),
	}
}

type vulkanSurface struct {
	instance vk.Instance
	surface  vk.Surface
}

func (s *vulkanSurface) SupportsPresent(dev PhysicalDevice, family uint32) (bool, error) {
	var supported vk.Bool32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(handleOf(dev), family, s.surface, &supported))
	if err != nil {
		return false, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	return supported.B(), nil
}

func (s *vulkanSurface) Capabilities(dev PhysicalDevice) (SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(handleOf(dev), s.surface, &caps)); err != nil {
		return SurfaceCapabilities{}, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return SurfaceCapabilities{
		MinImageCount:  caps.MinImageCount,
		MaxImageCount:  caps.MaxImageCount,
		CurrentExtent:  Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height},
		MinImageExtent: Extent2D{Width: caps.MinImageExtent.Width, Height: caps.MinImageExtent.Height},
		MaxImageExtent: Extent2D{Width: caps.MaxImageExtent.Width, Height: caps.MaxImageExtent.Height},
	}, nil
}

func (s *vulkanSurface) Formats(dev PhysicalDevice) ([]SurfaceFormat, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(handleOf(dev), s.surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	vkFormats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(handleOf(dev), s.surface, &count, vkFormats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}

	formats := make([]SurfaceFormat, len(vkFormats))
	for i := range vkFormats {
		vkFormats[i].Deref()
		formats[i] = SurfaceFormat{
			Format:     Format(vkFormats[i].Format),
			ColorSpace: ColorSpace(vkFormats[i].ColorSpace),
		}
	}
	return formats, nil
}

func (s *vulkanSurface) PresentModes(dev PhysicalDevice) ([]PresentMode, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(handleOf(dev), s.surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	vkModes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(handleOf(dev), s.surface, &count, vkModes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}

	modes := make([]PresentMode, len(vkModes))
	for i, mode := range vkModes {
		modes[i] = PresentMode(mode)
	}
	return modes, nil
}

func (s *vulkanSurface) Destroy() {
	vk.DestroySurface(s.instance, s.surface, nil)
}

type vulkanPhysicalDevice struct {
	handle vk.PhysicalDevice
}

func (d *vulkanPhysicalDevice) Name() string {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.handle, &props)
	props.Deref()
	return vk.ToString(props.DeviceName[:])
}

func (d *vulkanPhysicalDevice) QueueFamilies() ([]QueueFamilyProperties, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(d.handle, &count, nil)
	vkFamilies := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(d.handle, &count, vkFamilies)

	families := make([]QueueFamilyProperties, len(vkFamilies))
	for i := range vkFamilies {
		vkFamilies[i].Deref()

		var flags QueueFlags
		if vkFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			flags |= QueueGraphics
		}
		if vkFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
			flags |= QueueCompute
		}
		if vkFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
			flags |= QueueTransfer
		}
		families[i] = QueueFamilyProperties{
			Flags:      flags,
			QueueCount: vkFamilies[i].QueueCount,
		}
	}
	return families, nil
}

func (d *vulkanPhysicalDevice) Extensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(d.handle, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(d.handle, "", &count, props)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}

	names := make([]string, len(props))
	for i := range props {
		props[i].Deref()
		names[i] = vk.ToString(props[i].ExtensionName[:])
	}
	return names, nil
}

func (d *vulkanPhysicalDevice) Open(opts OpenOptions) (LogicalDevice, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(opts.Queues))
	for _, queue := range opts.Queues {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: queue.FamilyIndex,
			QueueCount:       uint32(len(queue.Priorities)),
			PQueuePriorities: queue.Priorities,
		})
	}

	extensions := opts.Extensions
	if opts.EnableMemoryModel {
		// The binding exposes no feature struct for the memory model;
		// requesting the extension enables the feature set.
		extensions = appendMissing(extensions, MemoryModelExtensionName)
	}

	deviceInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(opts.Layers)),
		PpEnabledLayerNames:     safeStrings(opts.Layers),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	var handle vk.Device
	if err := vk.Error(vk.CreateDevice(d.handle, &deviceInfo, nil, &handle)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}

	return &vulkanLogicalDevice{handle: handle, physical: d.handle}, nil
}

type vulkanLogicalDevice struct {
	handle   vk.Device
	physical vk.PhysicalDevice
}

func (d *vulkanLogicalDevice) Queue(family uint32) (Queue, error) {
	var queue vk.Queue
	vk.GetDeviceQueue(d.handle, family, 0, &queue)
	if queue == nil {
		return nil, fmt.Errorf("no queue retrieved for family %d", family)
	}
	return &vulkanQueue{queue: queue, family: family}, nil
}

func (d *vulkanLogicalDevice) CreateSwapchain(surface Surface, opts SwapchainOptions) (Swapchain, error) {
	vks, ok := surface.(*vulkanSurface)
	if !ok {
		return nil, errors.New("surface was not created by the vulkan driver")
	}

	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(d.physical, vks.surface, &caps)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	caps.Deref()

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit)&caps.SupportedTransforms != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, flag := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(flag) != 0 {
			compositeAlpha = flag
			break
		}
	}

	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         vks.surface,
		MinImageCount:   opts.MinImageCount,
		ImageFormat:     vk.Format(opts.Format.Format),
		ImageColorSpace: vk.ColorSpace(opts.Format.ColorSpace),
		ImageExtent: vk.Extent2D{
			Width:  opts.Extent.Width,
			Height: opts.Extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentMode(opts.PresentMode),
		Clipped:          vk.True,
	}
	if len(opts.FamilyIndices) > 1 {
		scci.ImageSharingMode = vk.SharingModeConcurrent
		scci.QueueFamilyIndexCount = uint32(len(opts.FamilyIndices))
		scci.PQueueFamilyIndices = opts.FamilyIndices
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(d.handle, &scci, nil, &swapchain)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateSwapchain()")
	}

	var imageCount uint32
	if err := vk.Error(vk.GetSwapchainImages(d.handle, swapchain, &imageCount, nil)); err != nil {
		vk.DestroySwapchain(d.handle, swapchain, nil)
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}

	return &vulkanSwapchain{
		device:     d.handle,
		handle:     swapchain,
		imageCount: int(imageCount),
	}, nil
}

func (d *vulkanLogicalDevice) CreateRenderPass(opts RenderPassOptions) (RenderPass, error) {
	colorAttachment := vk.AttachmentDescription{
		Format:         vk.Format(opts.ColorFormat),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}

	colorAttachmentRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorAttachmentRef)),
		PColorAttachments:    colorAttachmentRef,
	}

	subpassDependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{subpassDependency},
	}

	var renderPass vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(d.handle, &rpci, nil, &renderPass)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateRenderPass()")
	}
	return &vulkanRenderPass{device: d.handle, handle: renderPass}, nil
}

func (d *vulkanLogicalDevice) WaitIdle() error {
	if err := vk.Error(vk.DeviceWaitIdle(d.handle)); err != nil {
		return errors.Wrap(err, "vk.DeviceWaitIdle()")
	}
	return nil
}

func (d *vulkanLogicalDevice) Destroy() {
	vk.DestroyDevice(d.handle, nil)
}

type vulkanQueue struct {
	queue  vk.Queue
	family uint32
}

func (q *vulkanQueue) Family() uint32 {
	return q.family
}

type vulkanSwapchain struct {
	device     vk.Device
	handle     vk.Swapchain
	imageCount int
}

func (s *vulkanSwapchain) ImageCount() int {
	return s.imageCount
}

func (s *vulkanSwapchain) Destroy() {
	vk.DestroySwapchain(s.device, s.handle, nil)
}

type vulkanRenderPass struct {
	device vk.Device
	handle vk.RenderPass
}

func (r *vulkanRenderPass) Destroy() {
	vk.DestroyRenderPass(r.device, r.handle, nil)
}

func handleOf(dev PhysicalDevice) vk.PhysicalDevice {
	return dev.(*vulkanPhysicalDevice).handle
}

func appendMissing(names []string, name string) []string {
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	out := make([]string, 0, len(names)+1)
	out = append(out, names...)
	return append(out, name)
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}
