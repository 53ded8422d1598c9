package renderer

import (
	"fmt"
	"path/filepath"
)

type Options struct {
	// Scene name used as the output file prefix.
	SceneName string

	// Inclusive frame range.
	FirstFrame int
	LastFrame  int

	// Number of samples.
	SamplesPerPixel int

	// Directory receiving the rendered images.
	OutputDir string
}

// ImageFilename returns the output path of a rendered sensor:
// <SceneName>_cam-<camera>_frame-<frame padded to 4 digits>.<ext>
func (o Options) ImageFilename(camera, frame int, ext string) string {
	name := fmt.Sprintf("%s_cam-%d_frame-%04d.%s", o.SceneName, camera, frame, ext)
	if o.OutputDir == "" {
		return name
	}
	return filepath.Join(o.OutputDir, name)
}
