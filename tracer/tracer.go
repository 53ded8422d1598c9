// Package tracer defines the boundary between scene compilation and the
// renderer that turns scene graphs into images.
package tracer

import (
	"errors"

	"github.com/jgain/EcoViz/scene"
)

var (
	// ErrSceneClosed is returned when rendering a scene that was closed.
	ErrSceneClosed = errors.New("tracer: scene is closed")

	// ErrSensorOutOfRange is returned for sensor indices the scene does not define.
	ErrSensorOutOfRange = errors.New("tracer: sensor index out of range")
)

// A single render request.
type RenderRequest struct {
	// The number of samples per pixel.
	SamplesPerPixel int

	// Index of the sensor in declaration order.
	Sensor int
}

// Scene is a scene graph loaded by a tracer.
type Scene interface {
	// The number of sensors defined by the scene.
	Sensors() int

	// Release the resources held by the scene.
	Close() error
}

// Image is a rendered image.
type Image interface {
	// Write the image to filename.
	Write(filename string) error
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Load a single object (mesh or surface) and return a handle to it.
	LoadObject(node *scene.Dict) (*scene.Handle, error)

	// Load a complete scene graph.
	LoadScene(graph *scene.Dict) (Scene, error)

	// Render one sensor of a loaded scene.
	Render(sc Scene, req RenderRequest) (Image, error)

	// The file extension of the images produced by Render.
	ImageFormat() string

	// Shutdown and cleanup tracer.
	Close()
}
