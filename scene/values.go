package scene

import (
	"encoding/json"

	"github.com/jgain/EcoViz/types"
)

// Handle is an object that the tracer has already loaded. Handles are
// shared between every node that references them.
type Handle struct {
	// Unique id assigned by the loader.
	ID string

	// The node that was loaded.
	Node *Dict
}

// Type returns the plugin type of the loaded node.
func (h *Handle) Type() string {
	return h.Node.Type()
}

// MarshalJSON encodes the handle as its node annotated with its id.
func (h *Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Node.Clone().Set("id", h.ID))
}

// Point is a position in 3D space.
type Point types.Vec3

// Vector is a direction in 3D space.
type Vector types.Vec3

func (p Point) MarshalJSON() ([]byte, error)  { return json.Marshal([3]float32(p)) }
func (v Vector) MarshalJSON() ([]byte, error) { return json.Marshal([3]float32(v)) }

// LookAt is a camera-to-world transform defined by an eye, a target and an up vector.
type LookAt struct {
	Origin types.Vec3 `json:"origin"`
	Target types.Vec3 `json:"target"`
	Up     types.Vec3 `json:"up"`
}

// Matrix returns the equivalent transformation matrix.
func (l LookAt) Matrix() types.Mat4 {
	return types.LookAt(l.Origin, l.Target, l.Up)
}

// Formats without a look-at primitive receive the matrix.
func (l LookAt) MarshalJSON() ([]byte, error) {
	return l.Matrix().MarshalJSON()
}

// Param is a placeholder substituted by the renderer when the scene is
// loaded, e.g. the sample count.
type Param struct {
	Name string

	// The value class: integer, float, string or boolean.
	Class string
}

func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal("$" + p.Name)
}

// RGB builds an rgb color node.
func RGB(c types.Vec3) *Dict {
	return New("rgb").Set("value", c)
}

// Loader turns a node into a renderer-side object handle.
type Loader interface {
	LoadObject(node *Dict) (*Handle, error)
}
