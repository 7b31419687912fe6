package core

import (
	"github.com/gravik3d/gravik/device"
	log "github.com/sirupsen/logrus"
)

// SurfaceContext is the root of the context chain. It owns the
// presentation surface and is destroyed last, after every descendant
// context released its reference.
type SurfaceContext struct {
	node
	surface device.Surface
}

// NewSurfaceContext wraps an already created platform surface as the
// chain root. The context takes ownership: the surface is destroyed
// when the last reference on the context is released.
func NewSurfaceContext(surface device.Surface) *SurfaceContext {
	s := &SurfaceContext{surface: surface}
	s.activate(nil, "surface", func() {
		surface.Destroy()
		log.Debug("surface context destroyed")
	})
	log.Debug("surface context created")
	return s
}

// Surface returns the owned surface for capability queries.
func (s *SurfaceContext) Surface() device.Surface {
	return s.surface
}

// DeviceContext owns the logical execution context opened on the
// selected physical device, together with its graphics and present
// queues. It holds a counted reference on the surface context.
type DeviceContext struct {
	node
	surface  *SurfaceContext
	physical *device.PhysicalDeviceInfo
	logical  *device.LogicalDeviceInfo
}

// NewDeviceContext selects the first adequate physical device, opens a
// logical context on it and links the result into the chain. Selection
// and creation either fully succeed or leave nothing allocated: the
// surface reference is only taken once the logical device exists.
func NewDeviceContext(surface *SurfaceContext, drv device.Driver, cfg device.Configuration) (*DeviceContext, error) {
	physical, err := device.Select(drv, surface.Surface(), cfg)
	if err != nil {
		return nil, err
	}

	logical, err := device.OpenLogical(physical, cfg)
	if err != nil {
		return nil, err
	}

	d := &DeviceContext{
		surface:  surface,
		physical: physical,
		logical:  logical,
	}
	d.activate(&surface.node, "device", func() {
		logical.Device.Destroy()
		log.WithField("device", physical.Name).Debug("device context destroyed")
	})
	log.WithField("device", physical.Name).Debug("device context created")
	return d, nil
}

// Physical returns the selection record of the winning device.
func (d *DeviceContext) Physical() *device.PhysicalDeviceInfo {
	return d.physical
}

// GraphicsQueue returns the graphics queue handle.
func (d *DeviceContext) GraphicsQueue() device.Queue {
	return d.logical.GraphicsQueue
}

// PresentQueue returns the present queue handle. It may be the same
// underlying queue as the graphics queue.
func (d *DeviceContext) PresentQueue() device.Queue {
	return d.logical.PresentQueue
}

// SwapchainSupport re-queries the swapchain related capabilities of
// the selected device against the owning surface. Surface properties
// change with the window, so the result is never cached.
func (d *DeviceContext) SwapchainSupport() (device.SwapchainSupportDetails, error) {
	return device.QuerySwapchainSupport(d.physical.Device, d.surface.Surface())
}

// WaitIdle blocks until all in-flight device work completed. Hosts
// must call it before releasing any context whose resource the
// hardware might still be using.
func (d *DeviceContext) WaitIdle() error {
	return d.logical.Device.WaitIdle()
}
