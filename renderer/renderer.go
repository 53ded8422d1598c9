package renderer

import (
	"context"

	"github.com/jgain/EcoViz/asset/compiler"
	"github.com/jgain/EcoViz/scene"
)

type Renderer interface {
	// Render every frame of the configured range.
	Render(ctx context.Context) error

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() RunStats
}

// FrameCompiler produces the scene graph of a frame.
type FrameCompiler interface {
	CompileFrame(frameID int) (*scene.Dict, compiler.Counts, error)
}
