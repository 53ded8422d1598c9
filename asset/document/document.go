// Package document parses JSON scene descriptions into typed records,
// resolves their file references and merges imported documents.
package document

import (
	"github.com/jgain/EcoViz/types"
)

// Default render settings.
const (
	DefaultWidth           = 1024
	DefaultHeight          = 768
	DefaultSamplesPerPixel = 128
	DefaultVariant         = "scalar_rgb"
	DefaultFOV             = 45.0
	DefaultSceneName       = "scene"
)

// Document is a parsed scene description.
type Document struct {
	Objects          []*Object          `json:"Objects,omitempty"`
	ObjectsInstances []*ObjectInstances `json:"ObjectsInstances,omitempty"`
	Lights           []*Light           `json:"Lights,omitempty"`
	Cameras          []*Camera          `json:"Cameras,omitempty"`
	Scene            *Settings          `json:"Scene,omitempty"`
	Import           []string           `json:"Import,omitempty"`

	// Location of the root document.
	Source string `json:"-"`

	// Every document that contributed to this one, root first.
	Sources []string `json:"-"`
}

// Object is a named group of meshes that can be instanced as a unit.
type Object struct {
	Name       string            `json:"Name"`
	Definition []*MeshDefinition `json:"Definition"`
}

// MeshDefinition places one mesh file, possibly several times, inside an object.
type MeshDefinition struct {
	File      string        `json:"File"`
	Material  *MaterialSpec `json:"Material,omitempty"`
	Instances []Placement   `json:"Instances"`
}

// Placement is an optional translate/rotate/scale triple. Rotation is given
// as Euler angles in radians.
type Placement struct {
	Translate *types.Vec3 `json:"Translate,omitempty"`
	Rotate    *types.Vec3 `json:"Rotate,omitempty"`
	Scale     *types.Vec3 `json:"Scale,omitempty"`
}

// Transform composes the placement into a single matrix.
func (p Placement) Transform() types.Mat4 {
	return types.Compose(p.Translate, p.Rotate, p.Scale)
}

// FrameInstances holds the instances that exist in a single frame.
type FrameInstances[T any] struct {
	Instances []T `json:"Instances"`
}

// Timeline lists static instances and per-frame instances. Frames is
// indexed by absolute frame number.
type Timeline[T any] struct {
	Instances []T                 `json:"Instances,omitempty"`
	Frames    []FrameInstances[T] `json:"Frames,omitempty"`
}

// Select returns the instances contributing to a compilation pass. The
// static pass uses Instances; frame passes use the matching Frames entry.
func (tl *Timeline[T]) Select(static bool, frameID int) []T {
	if static {
		return tl.Instances
	}
	if frameID < 0 || frameID >= len(tl.Frames) {
		return nil
	}
	return tl.Frames[frameID].Instances
}

// IsStatic returns true if the timeline declares static instances.
func (tl *Timeline[T]) IsStatic() bool {
	return tl.Instances != nil
}

// IsAnimated returns true if the timeline declares per-frame instances.
func (tl *Timeline[T]) IsAnimated() bool {
	return tl.Frames != nil
}

// ObjectInstances places a declared object in the scene.
type ObjectInstances struct {
	Ref string `json:"Ref"`
	Timeline[Placement]
}

// CameraInstance places a camera.
type CameraInstance struct {
	Eye *types.Vec3 `json:"Eye"`
	At  *types.Vec3 `json:"At"`
	Up  *types.Vec3 `json:"Up"`
}

// Camera is a named camera with optional field of view in degrees.
type Camera struct {
	Name string   `json:"Name"`
	FOV  *float32 `json:"FOV,omitempty"`
	Timeline[CameraInstance]
}

// Settings holds the global render settings.
type Settings struct {
	Name       string   `json:"Name"`
	Resolution []int    `json:"Resolution,omitempty"`
	Quality    int      `json:"Quality,omitempty"`
	M3Backend  string   `json:"M3Backend,omitempty"`
	Threads    *int     `json:"Threads,omitempty"`
	Frames     []int    `json:"Frames"`
	FOV        *float32 `json:"FOV,omitempty"`
}

// SceneName returns the image name prefix.
func (s *Settings) SceneName() string {
	if s.Name == "" {
		return DefaultSceneName
	}
	return s.Name
}

// Size returns the output resolution.
func (s *Settings) Size() (width, height int) {
	if len(s.Resolution) != 2 {
		return DefaultWidth, DefaultHeight
	}
	return s.Resolution[0], s.Resolution[1]
}

// SamplesPerPixel returns the configured quality.
func (s *Settings) SamplesPerPixel() int {
	if s.Quality <= 0 {
		return DefaultSamplesPerPixel
	}
	return s.Quality
}

// Variant returns the renderer variant.
func (s *Settings) Variant() string {
	if s.M3Backend == "" {
		return DefaultVariant
	}
	return s.M3Backend
}

// ThreadCount returns the configured thread count or -1 for the renderer default.
func (s *Settings) ThreadCount() int {
	if s.Threads == nil {
		return -1
	}
	return *s.Threads
}

// FrameRange returns the inclusive frame range.
func (s *Settings) FrameRange() (first, last int) {
	if len(s.Frames) != 2 {
		return 0, -1
	}
	return s.Frames[0], s.Frames[1]
}

// FieldOfView returns the camera field of view falling back to the scene
// setting and then to the default.
func (s *Settings) FieldOfView(cam *Camera) float32 {
	if cam != nil && cam.FOV != nil {
		return *cam.FOV
	}
	if s != nil && s.FOV != nil {
		return *s.FOV
	}
	return DefaultFOV
}

// FindObject returns the object with the given name or nil.
func (d *Document) FindObject(name string) *Object {
	for _, obj := range d.Objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}
