package core

import (
	"github.com/cockroachdb/errors"
	"github.com/gravik3d/gravik/device"
	log "github.com/sirupsen/logrus"
)

// SwapchainContext owns a swap buffer chain created on the device
// context it extends. Several swapchain contexts may extend the same
// device context; the device is released only when the last one is.
type SwapchainContext struct {
	node
	device    *DeviceContext
	swapchain device.Swapchain
	format    device.SurfaceFormat
	extent    device.Extent2D
}

// NewSwapchainContext queries current swapchain support, resolves
// format, present mode, extent and image count, and creates the
// swapchain. Image sharing turns concurrent when graphics and present
// live on distinct families.
func NewSwapchainContext(dev *DeviceContext, cfg RendererConfiguration) (*SwapchainContext, error) {
	support, err := dev.SwapchainSupport()
	if err != nil {
		return nil, err
	}
	if !support.Adequate() {
		return nil, errors.Mark(errors.New("surface lost swapchain adequacy"), device.ErrContextCreation)
	}

	format := support.PreferredFormat()
	mode := support.PreferredPresentMode()
	extent := support.ChooseExtent(cfg.ScreenWidth, cfg.ScreenHeight)
	imageCount := swapchainImageCount(support.Capabilities, cfg.SwapchainSize)

	swapchain, err := dev.logical.Device.CreateSwapchain(dev.surface.Surface(), device.SwapchainOptions{
		Format:        format,
		PresentMode:   mode,
		Extent:        extent,
		MinImageCount: imageCount,
		FamilyIndices: dev.physical.FamilyIndices,
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "swapchain creation"), device.ErrContextCreation)
	}

	s := &SwapchainContext{
		device:    dev,
		swapchain: swapchain,
		format:    format,
		extent:    extent,
	}
	s.activate(&dev.node, "swapchain", func() {
		swapchain.Destroy()
		log.Debug("swapchain context destroyed")
	})
	log.WithFields(log.Fields{
		"format": format.Format,
		"width":  extent.Width,
		"height": extent.Height,
		"images": swapchain.ImageCount(),
	}).Debug("swapchain context created")
	return s, nil
}

// swapchainImageCount resolves the requested minimum image count:
// one above the surface minimum for latency headroom, overridden by
// sizeHint when set, always clamped to the supported range.
func swapchainImageCount(caps device.SurfaceCapabilities, sizeHint uint32) uint32 {
	count := caps.MinImageCount + 1
	if sizeHint > 0 {
		count = sizeHint
	}
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// Format returns the surface format the swapchain was created with.
func (s *SwapchainContext) Format() device.SurfaceFormat {
	return s.format
}

// Extent returns the pixel extent of the swapchain images.
func (s *SwapchainContext) Extent() device.Extent2D {
	return s.extent
}

// ImageCount returns the number of images in the chain.
func (s *SwapchainContext) ImageCount() int {
	return s.swapchain.ImageCount()
}

// Device returns the device context this swapchain extends.
func (s *SwapchainContext) Device() *DeviceContext {
	return s.device
}
