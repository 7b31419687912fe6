package device_test

import (
	"github.com/cockroachdb/errors"

	"github.com/gravik3d/gravik/device"
)

// The fakes below stand in for the platform driver so selection and
// creation logic can run against scripted hardware.

type fakeDriver struct {
	devices []device.PhysicalDevice
	err     error
}

func (d *fakeDriver) PhysicalDevices() ([]device.PhysicalDevice, error) {
	return d.devices, d.err
}

func (d *fakeDriver) Destroy() {}

type fakePhysicalDevice struct {
	name string

	families    []device.QueueFamilyProperties
	familiesErr error

	extensions    []string
	extensionsErr error

	logical   *fakeLogicalDevice
	openErr   error
	openCalls int
	openOpts  device.OpenOptions
}

func (d *fakePhysicalDevice) Name() string { return d.name }

func (d *fakePhysicalDevice) QueueFamilies() ([]device.QueueFamilyProperties, error) {
	return d.families, d.familiesErr
}

func (d *fakePhysicalDevice) Extensions() ([]string, error) {
	return d.extensions, d.extensionsErr
}

func (d *fakePhysicalDevice) Open(opts device.OpenOptions) (device.LogicalDevice, error) {
	d.openCalls++
	d.openOpts = opts
	if d.openErr != nil {
		return nil, d.openErr
	}
	if d.logical == nil {
		d.logical = &fakeLogicalDevice{}
	}
	return d.logical, nil
}

type fakeSurface struct {
	// presentSupport decides per (device, family); nil means every
	// family presents.
	presentSupport func(dev device.PhysicalDevice, family uint32) (bool, error)

	caps    device.SurfaceCapabilities
	capsErr error

	formats    []device.SurfaceFormat
	formatsErr error

	modes    []device.PresentMode
	modesErr error

	presentQueries int
	destroyed      bool
}

func (s *fakeSurface) SupportsPresent(dev device.PhysicalDevice, family uint32) (bool, error) {
	s.presentQueries++
	if s.presentSupport == nil {
		return true, nil
	}
	return s.presentSupport(dev, family)
}

func (s *fakeSurface) Capabilities(device.PhysicalDevice) (device.SurfaceCapabilities, error) {
	return s.caps, s.capsErr
}

func (s *fakeSurface) Formats(device.PhysicalDevice) ([]device.SurfaceFormat, error) {
	return s.formats, s.formatsErr
}

func (s *fakeSurface) PresentModes(device.PhysicalDevice) ([]device.PresentMode, error) {
	return s.modes, s.modesErr
}

func (s *fakeSurface) Destroy() { s.destroyed = true }

type fakeLogicalDevice struct {
	queueErr  map[uint32]error
	destroyed bool
}

func (d *fakeLogicalDevice) Queue(family uint32) (device.Queue, error) {
	if err := d.queueErr[family]; err != nil {
		return nil, err
	}
	return fakeQueue{family: family}, nil
}

func (d *fakeLogicalDevice) CreateSwapchain(device.Surface, device.SwapchainOptions) (device.Swapchain, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeLogicalDevice) CreateRenderPass(device.RenderPassOptions) (device.RenderPass, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeLogicalDevice) WaitIdle() error { return nil }

func (d *fakeLogicalDevice) Destroy() { d.destroyed = true }

type fakeQueue struct {
	family uint32
}

func (q fakeQueue) Family() uint32 { return q.family }

// adequateDevice builds a device that passes all three selection
// predicates with one graphics and present capable family.
func adequateDevice(name string) *fakePhysicalDevice {
	return &fakePhysicalDevice{
		name: name,
		families: []device.QueueFamilyProperties{
			{Flags: device.QueueGraphics | device.QueueCompute, QueueCount: 4},
		},
		extensions: []string{device.SwapchainExtensionName},
	}
}

// adequateSurface builds a surface advertising one format and one
// present mode, enough for adequacy.
func adequateSurface() *fakeSurface {
	return &fakeSurface{
		caps: device.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8},
		formats: []device.SurfaceFormat{
			{Format: device.FormatB8G8R8A8SRGB, ColorSpace: device.ColorSpaceSRGBNonlinear},
		},
		modes: []device.PresentMode{device.PresentModeFIFO},
	}
}
