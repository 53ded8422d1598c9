package document

import (
	"fmt"

	"github.com/jgain/EcoViz/asset"
)

// Validate checks a merged document for contract violations so that
// malformed scenes fail before any assembly work starts.
func Validate(doc *Document) error {
	if doc.Scene == nil {
		return fmt.Errorf("Scene: missing settings")
	}
	if err := validateSettings(doc.Scene); err != nil {
		return err
	}
	_, lastFrame := doc.Scene.FrameRange()

	names := make(map[string]bool, len(doc.Objects))
	for index, obj := range doc.Objects {
		if obj.Name == "" {
			return fmt.Errorf("Objects[%d]: missing Name", index)
		}
		if names[obj.Name] {
			return fmt.Errorf("Objects[%d]: object %q declared more than once", index, obj.Name)
		}
		names[obj.Name] = true

		for defIndex, def := range obj.Definition {
			if def.File == "" {
				return fmt.Errorf("Objects[%d].Definition[%d]: missing File", index, defIndex)
			}
			if !IsSupportedMesh(def.File) {
				return fmt.Errorf("Objects[%d].Definition[%d]: unsupported mesh format %q", index, defIndex, asset.Ext(def.File))
			}
			if def.Material == nil {
				continue
			}
			if err := validateMaterial(def.Material.Material); err != nil {
				return fmt.Errorf("Objects[%d].Definition[%d].Material: %w", index, defIndex, err)
			}
		}
	}

	for index, inst := range doc.ObjectsInstances {
		if doc.FindObject(inst.Ref) == nil {
			return fmt.Errorf("ObjectsInstances[%d]: unknown object %q", index, inst.Ref)
		}
		if err := checkFrames(len(inst.Frames), lastFrame); err != nil {
			return fmt.Errorf("ObjectsInstances[%d]: %w", index, err)
		}
	}

	for index, light := range doc.Lights {
		if light.Type == LightEnvmap && light.File == "" {
			return fmt.Errorf("Lights[%d]: envmap %q requires a File", index, light.Name)
		}
		if err := checkFrames(len(light.Frames), lastFrame); err != nil {
			return fmt.Errorf("Lights[%d]: %w", index, err)
		}
	}

	for camIndex, cam := range doc.Cameras {
		if cam.Name == "" {
			return fmt.Errorf("Cameras[%d]: missing Name", camIndex)
		}
		if cam.FOV != nil && (*cam.FOV <= 0 || *cam.FOV >= 180) {
			return fmt.Errorf("Cameras[%d]: FOV must be in (0, 180); got %g", camIndex, *cam.FOV)
		}
		if err := checkFrames(len(cam.Frames), lastFrame); err != nil {
			return fmt.Errorf("Cameras[%d]: %w", camIndex, err)
		}
		instances := append([]CameraInstance{}, cam.Instances...)
		for _, frame := range cam.Frames {
			instances = append(instances, frame.Instances...)
		}
		for _, inst := range instances {
			if inst.Eye == nil || inst.At == nil || inst.Up == nil {
				return fmt.Errorf("Cameras[%d]: instances require Eye, At and Up", camIndex)
			}
			if inst.Eye.Sub(*inst.At).IsZero() {
				return fmt.Errorf("Cameras[%d]: Eye and At must differ", camIndex)
			}
			if inst.Up.IsZero() {
				return fmt.Errorf("Cameras[%d]: Up must be non-zero", camIndex)
			}
		}
	}

	return nil
}

func validateSettings(s *Settings) error {
	if len(s.Frames) != 2 {
		return fmt.Errorf("Scene: Frames must be [first, last]; got %v", s.Frames)
	}
	if s.Frames[0] < 0 || s.Frames[0] > s.Frames[1] {
		return fmt.Errorf("Scene: invalid frame range %v", s.Frames)
	}
	if s.Resolution != nil && (len(s.Resolution) != 2 || s.Resolution[0] <= 0 || s.Resolution[1] <= 0) {
		return fmt.Errorf("Scene: Resolution must be [width, height]; got %v", s.Resolution)
	}
	if s.Quality < 0 {
		return fmt.Errorf("Scene: Quality must be positive; got %d", s.Quality)
	}
	return nil
}

// checkFrames verifies that an animated timeline covers every rendered frame.
func checkFrames(frameCount, lastFrame int) error {
	if frameCount == 0 || frameCount > lastFrame {
		return nil
	}
	return fmt.Errorf("Frames lists %d entries but frame %d is rendered", frameCount, lastFrame)
}

// IsSupportedMesh returns true for the mesh formats the renderer can load.
func IsSupportedMesh(path string) bool {
	switch asset.Ext(path) {
	case "obj", "serialized":
		return true
	}
	return false
}
