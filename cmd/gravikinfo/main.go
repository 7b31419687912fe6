// Command gravikinfo dumps the accelerators visible to the Vulkan
// driver as JSON: name, queue family capabilities and whether the
// device carries the extensions the engine requires. It runs headless,
// so presentation support is not part of the report.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/gravik3d/gravik/device"
)

type queueFamilyReport struct {
	Index    int    `json:"index"`
	Queues   uint32 `json:"queues"`
	Graphics bool   `json:"graphics"`
	Compute  bool   `json:"compute"`
	Transfer bool   `json:"transfer"`
}

type deviceReport struct {
	Name                string              `json:"name"`
	QueueFamilies       []queueFamilyReport `json:"queueFamilies"`
	Extensions          []string            `json:"extensions"`
	RequiredExtensionOK bool                `json:"requiredExtensionsSupported"`
}

func main() {
	driver, err := device.NewVulkanDriver(device.DefaultApplicationInfo, nil, device.InstanceConfiguration{
		AppName: "gravikinfo",
	})
	if err != nil {
		log.WithError(err).Fatal("driver bring-up failed")
	}
	defer driver.Destroy()

	devices, err := driver.PhysicalDevices()
	if err != nil {
		log.WithError(err).Fatal("device enumeration failed")
	}

	cfg := device.DefaultConfiguration()
	reports := make([]deviceReport, 0, len(devices))
	for _, dev := range devices {
		report := deviceReport{Name: dev.Name()}

		families, err := dev.QueueFamilies()
		if err != nil {
			log.WithError(err).WithField("device", report.Name).Warn("queue family query failed")
		}
		for idx, family := range families {
			report.QueueFamilies = append(report.QueueFamilies, queueFamilyReport{
				Index:    idx,
				Queues:   family.QueueCount,
				Graphics: family.Flags&device.QueueGraphics != 0,
				Compute:  family.Flags&device.QueueCompute != 0,
				Transfer: family.Flags&device.QueueTransfer != 0,
			})
		}

		if report.Extensions, err = dev.Extensions(); err != nil {
			log.WithError(err).WithField("device", report.Name).Warn("extension query failed")
		}
		if report.RequiredExtensionOK, err = device.SupportsExtensions(dev, cfg.RequiredExtensions); err != nil {
			log.WithError(err).WithField("device", report.Name).Warn("extension check failed")
		}

		reports = append(reports, report)
	}

	bytes, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("report marshalling failed")
	}
	fmt.Fprintln(os.Stdout, string(bytes))
}
