package core

import (
	"github.com/cockroachdb/errors"
	"github.com/gravik3d/gravik/device"
	log "github.com/sirupsen/logrus"
)

// RenderPassContext owns a render pass targeting the swapchain's
// color format. It is the leaf of the bring-up chain.
type RenderPassContext struct {
	node
	swapchain  *SwapchainContext
	renderPass device.RenderPass
}

// NewRenderPassContext creates a single subpass render pass with one
// color attachment in the swapchain's format, cleared on load and
// stored for presentation.
func NewRenderPassContext(swapchain *SwapchainContext) (*RenderPassContext, error) {
	renderPass, err := swapchain.device.logical.Device.CreateRenderPass(device.RenderPassOptions{
		ColorFormat: swapchain.format.Format,
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "render pass creation"), device.ErrContextCreation)
	}

	r := &RenderPassContext{
		swapchain:  swapchain,
		renderPass: renderPass,
	}
	r.activate(&swapchain.node, "render pass", func() {
		renderPass.Destroy()
		log.Debug("render pass context destroyed")
	})
	log.Debug("render pass context created")
	return r, nil
}

// Swapchain returns the swapchain context this render pass extends.
func (r *RenderPassContext) Swapchain() *SwapchainContext {
	return r.swapchain
}
