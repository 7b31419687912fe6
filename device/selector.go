package device

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

// PhysicalDeviceInfo is the immutable record produced by Select for
// the winning candidate.
type PhysicalDeviceInfo struct {
	Device PhysicalDevice

	GraphicsFamily uint32
	PresentFamily  uint32

	// FamilyIndices is the deduplicated family index set: one entry
	// when graphics and present coincide, two otherwise.
	FamilyIndices []uint32

	Name string
}

// Select enumerates all physical devices and returns the first one, in
// enumeration order, that resolves both queue families, supports every
// required extension and offers adequate swapchain support. The search
// is satisficing: later candidates are never preferred over an earlier
// adequate one, and no performance class ranking is applied.
//
// A query failure while probing one candidate rejects that candidate
// only; it never aborts the search. When no candidate qualifies the
// returned error matches ErrNoSuitableDevice.
func Select(drv Driver, surface Surface, cfg Configuration) (*PhysicalDeviceInfo, error) {
	devices, err := drv.PhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "physical device enumeration")
	}
	if len(devices) == 0 {
		return nil, errors.Mark(errors.New("no physical devices enumerated"), ErrNoSuitableDevice)
	}

	for _, dev := range devices {
		info, reason := evaluate(dev, surface, cfg)
		if info != nil {
			log.WithField("device", info.Name).Debug("physical device selected")
			return info, nil
		}
		log.WithFields(log.Fields{
			"device": dev.Name(),
			"reason": reason,
		}).Debug("physical device rejected")
	}

	return nil, errors.Mark(
		errors.Newf("no adequate device among %d candidates (required extensions: %v)",
			len(devices), cfg.RequiredExtensions),
		ErrNoSuitableDevice,
	)
}

// evaluate applies the three adequacy predicates to one candidate.
// It reports a human readable rejection reason instead of an error:
// probe failures count as rejection, per the propagation policy.
func evaluate(dev PhysicalDevice, surface Surface, cfg Configuration) (*PhysicalDeviceInfo, string) {
	indices, err := FindQueueFamilies(dev, surface)
	if err != nil {
		return nil, err.Error()
	}
	if !indices.Complete() {
		return nil, "no graphics and present capable queue families"
	}

	supported, err := SupportsExtensions(dev, cfg.RequiredExtensions)
	if err != nil {
		return nil, err.Error()
	}
	if !supported {
		return nil, "missing required extensions"
	}

	support, err := QuerySwapchainSupport(dev, surface)
	if err != nil {
		return nil, err.Error()
	}
	if !support.Adequate() {
		return nil, "no surface formats or present modes"
	}

	return &PhysicalDeviceInfo{
		Device:         dev,
		GraphicsFamily: *indices.Graphics,
		PresentFamily:  *indices.Present,
		FamilyIndices:  indices.Dedup(),
		Name:           dev.Name(),
	}, ""
}
