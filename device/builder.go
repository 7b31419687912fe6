package device

// LogicalDeviceInfo is the opened execution context plus the queue
// handles retrieved from it. GraphicsQueue and PresentQueue refer to
// the same underlying queue when the two family indices coincide.
type LogicalDeviceInfo struct {
	Device        LogicalDevice
	GraphicsQueue Queue
	PresentQueue  Queue
}

// OpenLogical opens a logical execution context on the selected
// device: one single-queue descriptor at maximum priority per
// deduplicated family index, the configured extension set and layers,
// a baseline feature set with nothing optional enabled, and the memory
// model consistency feature as configured. On success both queue
// handles are retrieved.
//
// Failure is fatal to startup and matches ErrContextCreation; a
// partially opened device never leaks on the failure path.
func OpenLogical(info *PhysicalDeviceInfo, cfg Configuration) (*LogicalDeviceInfo, error) {
	queues := make([]QueueDescriptor, 0, len(info.FamilyIndices))
	for _, family := range info.FamilyIndices {
		queues = append(queues, QueueDescriptor{
			FamilyIndex: family,
			Priorities:  []float32{1.0},
		})
	}

	logical, err := info.Device.Open(OpenOptions{
		Queues:            queues,
		Extensions:        cfg.RequiredExtensions,
		Layers:            cfg.EnabledLayers,
		EnableMemoryModel: cfg.EnableMemoryModel,
	})
	if err != nil {
		return nil, creationFailure(err, "logical device creation")
	}

	graphicsQueue, err := logical.Queue(info.GraphicsFamily)
	if err != nil {
		logical.Destroy()
		return nil, creationFailure(err, "graphics queue retrieval")
	}
	presentQueue, err := logical.Queue(info.PresentFamily)
	if err != nil {
		logical.Destroy()
		return nil, creationFailure(err, "present queue retrieval")
	}

	return &LogicalDeviceInfo{
		Device:        logical,
		GraphicsQueue: graphicsQueue,
		PresentQueue:  presentQueue,
	}, nil
}
