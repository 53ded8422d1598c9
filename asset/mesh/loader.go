// Package mesh loads mesh files together with their surfaces and groups
// them into instanceable shape groups.
package mesh

import (
	"errors"
	"fmt"
	"time"

	"github.com/jgain/EcoViz/asset"
	"github.com/jgain/EcoViz/asset/document"
	"github.com/jgain/EcoViz/asset/material"
	"github.com/jgain/EcoViz/asset/wavefront"
	"github.com/jgain/EcoViz/log"
	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/types"
)

// ErrUnsupportedFormat is returned for mesh files the renderer cannot load.
var ErrUnsupportedFormat = errors.New("mesh: unsupported mesh format")

// The key prefix of shape group entries.
const ShapeGroupPrefix = "sh_grp_"

// ShapeGroupID returns the scene key of the shape group for an object.
func ShapeGroupID(objectName string) string {
	return ShapeGroupPrefix + objectName
}

// Loader loads meshes through a scene loader.
type Loader struct {
	logger  log.Logger
	builder *material.Builder
	objects scene.Loader
	loaded  int
}

// NewLoader creates a mesh loader.
func NewLoader(builder *material.Builder, objects scene.Loader) *Loader {
	return &Loader{
		logger:  log.New("mesh loader"),
		builder: builder,
		objects: objects,
	}
}

// Loaded returns the number of meshes loaded so far.
func (l *Loader) Loaded() int {
	return l.loaded
}

// Load builds the node for a mesh file with its surface and optional world
// transform and submits it to the scene loader. When mat is nil and the
// file is a wavefront object, its material library is searched for textures.
func (l *Loader) Load(file string, mat document.Material, transform *types.Mat4) (*scene.Handle, error) {
	format := asset.Ext(file)
	if !document.IsSupportedMesh(file) {
		return nil, fmt.Errorf("%w %q: %s", ErrUnsupportedFormat, format, file)
	}

	var bsdf any
	switch {
	case mat != nil:
		var err error
		if bsdf, err = l.builder.Build(mat); err != nil {
			return nil, err
		}
	case format == "obj":
		bsdf = l.discoverSurface(file)
	default:
		l.logger.Warningf("no material for %q; using fallback surface", file)
		bsdf = l.builder.Textured(&document.TexturedMaterial{})
	}

	node := scene.New(format).
		Set("filename", file).
		Set("face_normals", false).
		Set("bsdf", bsdf)
	if transform != nil {
		node.Set("to_world", *transform)
	}

	h, err := l.objects.LoadObject(node)
	if err != nil {
		return nil, fmt.Errorf("mesh: could not load %s: %w", file, err)
	}
	l.loaded++
	return h, nil
}

// discoverSurface builds an uncached textured surface from the textures of
// the object's material library.
func (l *Loader) discoverSurface(file string) *scene.Dict {
	tex, err := wavefront.FindTextures(file)
	switch {
	case errors.Is(err, wavefront.ErrNoColorMap):
		l.logger.Warningf("%v", err)
	case err != nil:
		l.logger.Warningf("no material found for %q: %v", file, err)
		tex = &wavefront.Textures{}
	}
	return l.builder.Textured(&document.TexturedMaterial{
		ColorMap:   tex.ColorMap,
		OpacityMap: tex.OpacityMap,
	})
}

// LoadShapeGroups loads every mesh placement of every object and returns a
// node holding one shape group per object keyed by ShapeGroupID.
func (l *Loader) LoadShapeGroups(objects []*document.Object) (*scene.Dict, error) {
	start := time.Now()
	groups := scene.New("")
	for _, obj := range objects {
		group := scene.New("shapegroup")
		for defIndex, def := range obj.Definition {
			var mat document.Material
			if def.Material != nil {
				mat = def.Material.Material
			}
			for instIndex, placement := range def.Instances {
				transform := placement.Transform()
				h, err := l.Load(def.File, mat, &transform)
				if err != nil {
					return nil, fmt.Errorf("object %q: %w", obj.Name, err)
				}
				group.Set(fmt.Sprintf("mesh_%d_inst_%d", defIndex+1, instIndex+1), h)
			}
		}
		groups.Set(ShapeGroupID(obj.Name), group)
		l.logger.Debugf("built shape group %q with %d meshes", obj.Name, group.Len()-1)
	}

	l.logger.Noticef("loaded %d shape groups (%d meshes) in %d ms", len(objects), l.loaded, time.Since(start).Nanoseconds()/1e6)
	return groups, nil
}
