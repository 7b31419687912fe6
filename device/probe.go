package device

import "github.com/cockroachdb/errors"

// QueueFamilyIndices holds the queue family indices resolved for a
// candidate device. Graphics and Present stay nil until a family with
// the capability is found; they may resolve to the same index.
type QueueFamilyIndices struct {
	Graphics *uint32
	Present  *uint32
}

// Complete reports whether both a graphics and a present family were
// found.
func (i QueueFamilyIndices) Complete() bool {
	return i.Graphics != nil && i.Present != nil
}

// Dedup returns the distinct family indices, graphics first. The
// result has one element when graphics and present coincide, two
// otherwise. Must only be called on complete indices.
func (i QueueFamilyIndices) Dedup() []uint32 {
	if *i.Graphics == *i.Present {
		return []uint32{*i.Graphics}
	}
	return []uint32{*i.Graphics, *i.Present}
}

// FindQueueFamilies scans the device queue families in index order and
// records the first graphics capable family and, independently, the
// first family able to present to surface. The scan stops as soon as
// both are resolved; first match wins, there is no scoring. Families
// advertising zero queues are skipped.
func FindQueueFamilies(dev PhysicalDevice, surface Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	families, err := dev.QueueFamilies()
	if err != nil {
		return indices, errors.Wrap(err, "queue family query")
	}

	for idx, family := range families {
		if family.QueueCount == 0 {
			continue
		}
		index := uint32(idx)

		if indices.Graphics == nil && family.Flags&QueueGraphics != 0 {
			graphics := index
			indices.Graphics = &graphics
		}

		if indices.Present == nil {
			supported, err := surface.SupportsPresent(dev, index)
			if err != nil {
				return QueueFamilyIndices{}, errors.Wrapf(err, "present support query for family %d", index)
			}
			if supported {
				present := index
				indices.Present = &present
			}
		}

		if indices.Complete() {
			break
		}
	}
	return indices, nil
}

// SupportsExtensions reports whether the device supports every
// extension in required.
func SupportsExtensions(dev PhysicalDevice, required []string) (bool, error) {
	available, err := dev.Extensions()
	if err != nil {
		return false, errors.Wrap(err, "device extension query")
	}

	supported := make(map[string]struct{}, len(available))
	for _, name := range available {
		supported[name] = struct{}{}
	}
	for _, name := range required {
		if _, ok := supported[name]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// SwapchainSupportDetails is the swapchain related capability snapshot
// of a (device, surface) pair. It is never cached by this package:
// surface properties change with the window, so callers re-query via
// QuerySwapchainSupport whenever they react to a surface change.
type SwapchainSupportDetails struct {
	Capabilities SurfaceCapabilities
	Formats      []SurfaceFormat
	PresentModes []PresentMode
}

// QuerySwapchainSupport queries capabilities, formats and present
// modes for the (device, surface) pair. Pure; safe to call repeatedly.
func QuerySwapchainSupport(dev PhysicalDevice, surface Surface) (SwapchainSupportDetails, error) {
	var details SwapchainSupportDetails

	capabilities, err := surface.Capabilities(dev)
	if err != nil {
		return details, errors.Wrap(err, "surface capabilities query")
	}
	formats, err := surface.Formats(dev)
	if err != nil {
		return details, errors.Wrap(err, "surface formats query")
	}
	presentModes, err := surface.PresentModes(dev)
	if err != nil {
		return details, errors.Wrap(err, "surface present modes query")
	}

	details.Capabilities = capabilities
	details.Formats = formats
	details.PresentModes = presentModes
	return details, nil
}

// Adequate reports whether the pair supports at least one surface
// format and one present mode. Capability limits are not constrained
// further at selection time.
func (d SwapchainSupportDetails) Adequate() bool {
	return len(d.Formats) > 0 && len(d.PresentModes) > 0
}

// PreferredFormat picks 8 bit BGRA sRGB when available, otherwise the
// first advertised format.
func (d SwapchainSupportDetails) PreferredFormat() SurfaceFormat {
	for _, format := range d.Formats {
		if format.Format == FormatB8G8R8A8SRGB && format.ColorSpace == ColorSpaceSRGBNonlinear {
			return format
		}
	}
	return d.Formats[0]
}

// PreferredPresentMode picks mailbox when available and falls back to
// FIFO, which every conforming driver provides.
func (d SwapchainSupportDetails) PreferredPresentMode() PresentMode {
	for _, mode := range d.PresentModes {
		if mode == PresentModeMailbox {
			return mode
		}
	}
	return PresentModeFIFO
}

// ChooseExtent resolves the swapchain extent: the surface's current
// extent when the driver fixed it, otherwise the requested size
// clamped to the supported range.
func (d SwapchainSupportDetails) ChooseExtent(width, height uint32) Extent2D {
	caps := d.Capabilities
	// A current extent of MaxUint32 means the surface lets the
	// swapchain pick.
	const undefined = ^uint32(0)
	if caps.CurrentExtent.Width != undefined {
		return caps.CurrentExtent
	}
	return Extent2D{
		Width:  clamp(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
