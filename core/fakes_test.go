package core_test

import (
	"github.com/cockroachdb/errors"

	"github.com/gravik3d/gravik/device"
)

// releaseLog records the order in which fake native resources are
// released, which is what the teardown invariants are asserted on.
type releaseLog struct {
	order []string
}

func (l *releaseLog) record(what string) {
	l.order = append(l.order, what)
}

type fakeDriver struct {
	devices []device.PhysicalDevice
}

func (d *fakeDriver) PhysicalDevices() ([]device.PhysicalDevice, error) {
	return d.devices, nil
}

func (d *fakeDriver) Destroy() {}

type fakePhysicalDevice struct {
	name       string
	families   []device.QueueFamilyProperties
	extensions []string

	logical *fakeLogicalDevice
	openErr error
}

func (d *fakePhysicalDevice) Name() string { return d.name }

func (d *fakePhysicalDevice) QueueFamilies() ([]device.QueueFamilyProperties, error) {
	return d.families, nil
}

func (d *fakePhysicalDevice) Extensions() ([]string, error) {
	return d.extensions, nil
}

func (d *fakePhysicalDevice) Open(device.OpenOptions) (device.LogicalDevice, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.logical, nil
}

type fakeSurface struct {
	log *releaseLog

	caps    device.SurfaceCapabilities
	formats []device.SurfaceFormat
	modes   []device.PresentMode

	supportQueries int
}

func (s *fakeSurface) SupportsPresent(device.PhysicalDevice, uint32) (bool, error) {
	return true, nil
}

func (s *fakeSurface) Capabilities(device.PhysicalDevice) (device.SurfaceCapabilities, error) {
	s.supportQueries++
	return s.caps, nil
}

func (s *fakeSurface) Formats(device.PhysicalDevice) ([]device.SurfaceFormat, error) {
	return s.formats, nil
}

func (s *fakeSurface) PresentModes(device.PhysicalDevice) ([]device.PresentMode, error) {
	return s.modes, nil
}

func (s *fakeSurface) Destroy() { s.log.record("surface") }

type fakeLogicalDevice struct {
	log *releaseLog

	swapchainOpts  []device.SwapchainOptions
	swapchainErr   error
	renderPassOpts []device.RenderPassOptions
	renderPassErr  error

	waitIdleCalls int
}

func (d *fakeLogicalDevice) Queue(family uint32) (device.Queue, error) {
	return fakeQueue{family: family}, nil
}

func (d *fakeLogicalDevice) CreateSwapchain(_ device.Surface, opts device.SwapchainOptions) (device.Swapchain, error) {
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}
	d.swapchainOpts = append(d.swapchainOpts, opts)
	return &fakeSwapchain{log: d.log, imageCount: int(opts.MinImageCount)}, nil
}

func (d *fakeLogicalDevice) CreateRenderPass(opts device.RenderPassOptions) (device.RenderPass, error) {
	if d.renderPassErr != nil {
		return nil, d.renderPassErr
	}
	d.renderPassOpts = append(d.renderPassOpts, opts)
	return &fakeRenderPass{log: d.log}, nil
}

func (d *fakeLogicalDevice) WaitIdle() error {
	d.waitIdleCalls++
	return nil
}

func (d *fakeLogicalDevice) Destroy() { d.log.record("device") }

type fakeQueue struct {
	family uint32
}

func (q fakeQueue) Family() uint32 { return q.family }

type fakeSwapchain struct {
	log        *releaseLog
	imageCount int
}

func (s *fakeSwapchain) ImageCount() int { return s.imageCount }

func (s *fakeSwapchain) Destroy() { s.log.record("swapchain") }

type fakeRenderPass struct {
	log *releaseLog
}

func (r *fakeRenderPass) Destroy() { r.log.record("render pass") }

// harness wires a scripted single device driver and surface that pass
// every adequacy check.
type harness struct {
	log     *releaseLog
	driver  *fakeDriver
	surface *fakeSurface
	logical *fakeLogicalDevice
}

func newHarness() *harness {
	log := &releaseLog{}
	logical := &fakeLogicalDevice{log: log}
	driver := &fakeDriver{devices: []device.PhysicalDevice{
		&fakePhysicalDevice{
			name: "fake gpu",
			families: []device.QueueFamilyProperties{
				{Flags: device.QueueGraphics, QueueCount: 1},
			},
			extensions: []string{device.SwapchainExtensionName},
			logical:    logical,
		},
	}}
	surface := &fakeSurface{
		log: log,
		caps: device.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: device.Extent2D{Width: 800, Height: 600},
		},
		formats: []device.SurfaceFormat{
			{Format: device.FormatB8G8R8A8SRGB, ColorSpace: device.ColorSpaceSRGBNonlinear},
		},
		modes: []device.PresentMode{device.PresentModeFIFO},
	}
	return &harness{log: log, driver: driver, surface: surface, logical: logical}
}

var errDriver = errors.New("driver failure")
