package tracer

import (
	"fmt"
	"os"

	"github.com/jgain/EcoViz/asset"
	"github.com/jgain/EcoViz/scene"
)

// ObjectRegistry assigns stable ids to loaded objects and checks that the
// files they reference exist.
type ObjectRegistry struct {
	counters map[string]int
	loaded   int
}

// NewObjectRegistry creates an empty registry.
func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{
		counters: make(map[string]int),
	}
}

// LoadObject validates node and returns a handle with an id of the form
// <type>_<n>. Mesh nodes must reference an existing file.
func (r *ObjectRegistry) LoadObject(node *scene.Dict) (*scene.Handle, error) {
	typeName := node.Type()
	class, found := scene.PluginClass(typeName)
	if !found {
		return nil, fmt.Errorf("tracer: unsupported plugin type %q", typeName)
	}

	if class == scene.ClassShape {
		v, _ := node.Get("filename")
		filename, _ := v.(string)
		if filename == "" {
			return nil, fmt.Errorf("tracer: %s node without a filename", typeName)
		}
		if !asset.FileExists(filename) {
			return nil, fmt.Errorf("tracer: mesh file %q: %w", filename, os.ErrNotExist)
		}
	}

	r.counters[typeName]++
	r.loaded++
	return &scene.Handle{
		ID:   fmt.Sprintf("%s_%d", typeName, r.counters[typeName]),
		Node: node,
	}, nil
}

// Loaded returns the number of loaded objects.
func (r *ObjectRegistry) Loaded() int {
	return r.loaded
}
