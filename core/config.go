// Package core builds and owns the graphics execution context chain:
// presentation surface, logical device, swapchain and render pass,
// with reference counted teardown in reverse creation order.
package core

import "github.com/gravik3d/gravik/device"

// Configuration defines a global engine configuration setting.
type Configuration struct {
	Instance device.InstanceConfiguration
	Device   device.Configuration
	Renderer RendererConfiguration
	Time     TimeConfiguration
}

// TimeConfiguration is used to configure time services.
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out.
	// To unlimit, set to 0.
	FramesPerSecond int
}

// RendererConfiguration is used to configure the renderer bring-up.
type RendererConfiguration struct {
	// SwapchainSize overrides the minimum swapchain image count when
	// non-zero; it is clamped to what the surface supports.
	SwapchainSize uint32

	ScreenWidth  uint32
	ScreenHeight uint32
}

// DefaultConfiguration returns a configuration suitable for a
// windowed bring-up.
func DefaultConfiguration() Configuration {
	return Configuration{
		Device: device.DefaultConfiguration(),
		Renderer: RendererConfiguration{
			ScreenWidth:  800,
			ScreenHeight: 600,
		},
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
	}
}
