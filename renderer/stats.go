package renderer

import "time"

type CameraStat struct {
	// Sensor index.
	Camera int

	// Written image.
	Image string

	// Render time for this sensor.
	RenderTime time.Duration
}

type FrameStats struct {
	Frame int

	// Instances in the frame's scene graph.
	Objects int
	Lights  int
	Cameras int

	// Time spent building and loading the scene graph.
	CompileTime time.Duration
	LoadTime    time.Duration

	// Individual sensor stats.
	Sensors []CameraStat

	// Heap in use after the frame resources were released.
	HeapInUse uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}

type RunStats struct {
	Frames []FrameStats

	// Total time for all frames.
	RenderTime time.Duration
}

// Images returns the number of written images.
func (s RunStats) Images() int {
	var count int
	for _, f := range s.Frames {
		count += len(f.Sensors)
	}
	return count
}
