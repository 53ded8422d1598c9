// Package compiler assembles scene documents into renderer scene graphs: a
// static graph built once and one dynamic graph per frame.
package compiler

import (
	"fmt"
	"time"

	"github.com/jgain/EcoViz/asset/document"
	"github.com/jgain/EcoViz/asset/material"
	"github.com/jgain/EcoViz/asset/mesh"
	"github.com/jgain/EcoViz/log"
	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/types"
)

const (
	integratorType     = "volpath"
	integratorMaxDepth = 32
)

// Counts tallies the instances added to a scene graph.
type Counts struct {
	Objects int
	Lights  int
	Cameras int
}

// Add returns the sum of two tallies.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Objects: c.Objects + other.Objects,
		Lights:  c.Lights + other.Lights,
		Cameras: c.Cameras + other.Cameras,
	}
}

// Pass selects which instances contribute to a graph.
type Pass struct {
	Static bool
	Frame  int
}

// StaticPass selects the Instances lists.
var StaticPass = Pass{Static: true}

// FramePass selects the Frames entry of a frame.
func FramePass(frameID int) Pass {
	return Pass{Frame: frameID}
}

func (p Pass) String() string {
	if p.Static {
		return "static"
	}
	return fmt.Sprintf("frame %d", p.Frame)
}

// Compiler turns a document into scene graphs.
type Compiler struct {
	doc    *document.Document
	logger log.Logger

	cache   *material.TextureCache
	builder *material.Builder
	meshes  *mesh.Loader

	static       *scene.Dict
	staticCounts Counts
	shapeGroups  int
}

// New creates a compiler for doc. Meshes and shared surfaces are loaded
// through objects. The compiler owns the texture cache of the run.
func New(doc *document.Document, objects scene.Loader) *Compiler {
	cache := material.NewTextureCache()
	builder := material.NewBuilder(cache, objects)
	return &Compiler{
		doc:     doc,
		logger:  log.New("scene compiler"),
		cache:   cache,
		builder: builder,
		meshes:  mesh.NewLoader(builder, objects),
	}
}

// Document returns the compiled document.
func (c *Compiler) Document() *document.Document {
	return c.doc
}

// TextureCache returns the texture cache owned by this compiler.
func (c *Compiler) TextureCache() *material.TextureCache {
	return c.cache
}

// ShapeGroups returns the number of loaded shape groups.
func (c *Compiler) ShapeGroups() int {
	return c.shapeGroups
}

// CompileStatic builds the static scene graph: the integrator, the shape
// groups of all objects and every statically placed instance. The graph is
// built on the first call and returned as is afterwards.
func (c *Compiler) CompileStatic() (*scene.Dict, Counts, error) {
	if c.static != nil {
		return c.static, c.staticCounts, nil
	}

	start := time.Now()
	c.logger.Noticef("compiling static scene")

	graph := scene.New("scene").
		Set("integrator", scene.New(integratorType).Set("max_depth", integratorMaxDepth))

	groups, err := c.meshes.LoadShapeGroups(c.doc.Objects)
	if err != nil {
		return nil, Counts{}, err
	}
	graph.Update(groups)
	c.shapeGroups = groups.Len()

	counts, err := c.addInstances(graph, StaticPass)
	if err != nil {
		return nil, Counts{}, err
	}

	c.static, c.staticCounts = graph, counts
	c.logger.Noticef(
		"compiled static scene (%d objects, %d lights, %d cameras, %d textures) in %d ms",
		counts.Objects, counts.Lights, counts.Cameras, c.cache.Len(), time.Since(start).Nanoseconds()/1e6,
	)
	return graph, counts, nil
}

// CompileFrame returns a shallow copy of the static graph extended with the
// instances of the given frame. The returned counts include static instances.
func (c *Compiler) CompileFrame(frameID int) (*scene.Dict, Counts, error) {
	static, staticCounts, err := c.CompileStatic()
	if err != nil {
		return nil, Counts{}, err
	}

	graph := static.Clone()
	counts, err := c.addInstances(graph, FramePass(frameID))
	if err != nil {
		return nil, Counts{}, err
	}
	return graph, staticCounts.Add(counts), nil
}

func (c *Compiler) addInstances(graph *scene.Dict, pass Pass) (Counts, error) {
	var (
		counts Counts
		err    error
	)
	counts.Objects = AddObjectInstances(graph, c.doc, pass)
	if counts.Lights, err = AddLights(graph, c.doc, pass, c.logger); err != nil {
		return Counts{}, err
	}
	counts.Cameras = AddCameras(graph, c.doc, pass, c.logger)
	return counts, nil
}

// AddObjectInstances adds one instance node per object placement selected
// by pass. Names that are already taken are skipped by incrementing the
// instance counter until a free name is found.
func AddObjectInstances(graph *scene.Dict, doc *document.Document, pass Pass) int {
	var added int
	for _, obj := range doc.ObjectsInstances {
		for index, placement := range obj.Select(pass.Static, pass.Frame) {
			instCount := index + 1
			name := instanceName(obj.Ref, instCount)
			for graph.Has(name) {
				instCount++
				name = instanceName(obj.Ref, instCount)
			}

			graph.Set(name, scene.New("instance").
				Set("to_world", placement.Transform()).
				Set("shapegroup", scene.NewRef(mesh.ShapeGroupID(obj.Ref))))
			added++
		}
	}
	return added
}

// AddLights adds one emitter node per light instance selected by pass.
// Light names are not probed for collisions; a later instance with the
// same name replaces the earlier one.
func AddLights(graph *scene.Dict, doc *document.Document, pass Pass, logger log.Logger) (int, error) {
	var added int
	for _, light := range doc.Lights {
		for index, inst := range light.Select(pass.Static, pass.Frame) {
			node, err := lightNode(light, inst)
			if err != nil {
				return 0, err
			}

			name := instanceName(light.Name, index+1)
			if graph.Has(name) {
				logger.Warningf("light %q replaces an existing entry (%s pass)", name, pass)
			}
			graph.Set(name, node)
			added++
		}
	}
	return added, nil
}

func lightNode(light *document.Light, inst document.LightInstance) (*scene.Dict, error) {
	switch v := inst.(type) {
	case document.PointInstance:
		return scene.New("point").
			Set("position", scene.Point(*v.Position)).
			Set("intensity", scene.New("spectrum").Set("value", []float32(v.Intensity))), nil
	case document.EnvmapInstance:
		return scene.New("envmap").
			Set("filename", light.File).
			Set("to_world", types.EulerToMat4(v.Rotate)).
			Set("scale", v.Scale()), nil
	case document.DirectionalInstance:
		return scene.New("directional").
			Set("direction", scene.Vector(*v.Direction)).
			Set("irradiance", scene.RGB(v.Irradiance.Vec3())), nil
	case document.AmbientInstance:
		return scene.New("constant").
			Set("radiance", scene.RGB(v.Intensity.Vec3())), nil
	}
	return nil, fmt.Errorf("light %q: unsupported light type %q", light.Name, light.Type)
}

// AddCameras adds one perspective sensor per camera instance selected by
// pass. Like lights, sensor names are not probed for collisions.
func AddCameras(graph *scene.Dict, doc *document.Document, pass Pass, logger log.Logger) int {
	width, height := doc.Scene.Size()

	var added int
	for _, cam := range doc.Cameras {
		for index, inst := range cam.Select(pass.Static, pass.Frame) {
			name := scene.SensorPrefix + instanceName(cam.Name, index+1)
			if graph.Has(name) {
				logger.Warningf("camera %q replaces an existing entry (%s pass)", name, pass)
			}

			graph.Set(name, scene.New("perspective").
				Set("fov", doc.Scene.FieldOfView(cam)).
				Set("to_world", scene.LookAt{Origin: *inst.Eye, Target: *inst.At, Up: *inst.Up}).
				Set("film", scene.New("hdrfilm").
					Set("width", width).
					Set("height", height)))
			added++
		}
	}
	return added
}

func instanceName(name string, count int) string {
	return fmt.Sprintf("%s_inst_%d", name, count)
}
