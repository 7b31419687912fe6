package device_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravik3d/gravik/device"
)

func TestOpenLogicalQueueDescriptors(t *testing.T) {
	t.Run("one descriptor per distinct family", func(t *testing.T) {
		dev := adequateDevice("split")
		info := &device.PhysicalDeviceInfo{
			Device:         dev,
			GraphicsFamily: 0,
			PresentFamily:  3,
			FamilyIndices:  []uint32{0, 3},
		}

		_, err := device.OpenLogical(info, device.DefaultConfiguration())
		require.NoError(t, err)
		require.Len(t, dev.openOpts.Queues, 2)
		assert.Equal(t, uint32(0), dev.openOpts.Queues[0].FamilyIndex)
		assert.Equal(t, uint32(3), dev.openOpts.Queues[1].FamilyIndex)
		for _, queue := range dev.openOpts.Queues {
			assert.Equal(t, []float32{1.0}, queue.Priorities)
		}
	})

	t.Run("coinciding families request a single descriptor", func(t *testing.T) {
		dev := adequateDevice("unified")
		info := &device.PhysicalDeviceInfo{
			Device:         dev,
			GraphicsFamily: 1,
			PresentFamily:  1,
			FamilyIndices:  []uint32{1},
		}

		logical, err := device.OpenLogical(info, device.DefaultConfiguration())
		require.NoError(t, err)
		require.Len(t, dev.openOpts.Queues, 1)
		assert.Equal(t, uint32(1), logical.GraphicsQueue.Family())
		assert.Equal(t, uint32(1), logical.PresentQueue.Family())
	})
}

func TestOpenLogicalConfigurationPropagation(t *testing.T) {
	dev := adequateDevice("gpu")
	info := &device.PhysicalDeviceInfo{
		Device:        dev,
		FamilyIndices: []uint32{0},
	}
	cfg := device.Configuration{
		RequiredExtensions: []string{device.SwapchainExtensionName},
		EnabledLayers:      []string{"VK_LAYER_KHRONOS_validation"},
		EnableMemoryModel:  true,
	}

	_, err := device.OpenLogical(info, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.RequiredExtensions, dev.openOpts.Extensions)
	assert.Equal(t, cfg.EnabledLayers, dev.openOpts.Layers)
	assert.True(t, dev.openOpts.EnableMemoryModel)
}

func TestOpenLogicalCreationFailure(t *testing.T) {
	dev := adequateDevice("gpu")
	dev.openErr = errors.New("out of device memory")
	info := &device.PhysicalDeviceInfo{Device: dev, FamilyIndices: []uint32{0}}

	_, err := device.OpenLogical(info, device.DefaultConfiguration())
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrContextCreation))
}

func TestOpenLogicalQueueRetrievalFailureReleasesDevice(t *testing.T) {
	dev := adequateDevice("gpu")
	dev.logical = &fakeLogicalDevice{
		queueErr: map[uint32]error{2: errors.New("no such queue")},
	}
	info := &device.PhysicalDeviceInfo{
		Device:         dev,
		GraphicsFamily: 0,
		PresentFamily:  2,
		FamilyIndices:  []uint32{0, 2},
	}

	_, err := device.OpenLogical(info, device.DefaultConfiguration())
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrContextCreation))
	assert.True(t, dev.logical.destroyed, "logical device must not leak on the failure path")
}
