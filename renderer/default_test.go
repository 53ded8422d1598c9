package renderer

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgain/EcoViz/asset/compiler"
	"github.com/jgain/EcoViz/asset/document"
	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/tracer"
)

// pngTracer renders every sensor as a blank PNG image.
type pngTracer struct {
	*tracer.ObjectRegistry

	loadedScenes int
	closedScenes int
	renders      []tracer.RenderRequest
	closed       bool
}

type pngScene struct {
	tr      *pngTracer
	sensors int
	graph   *scene.Dict
}

func (s *pngScene) Sensors() int { return s.sensors }
func (s *pngScene) Close() error {
	s.tr.closedScenes++
	return nil
}

type pngImage struct{ w, h int }

func (img pngImage) Write(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, image.NewRGBA(image.Rect(0, 0, img.w, img.h)))
}

func newPNGTracer() *pngTracer {
	return &pngTracer{ObjectRegistry: tracer.NewObjectRegistry()}
}

func (tr *pngTracer) Id() string { return "png" }

func (tr *pngTracer) LoadScene(graph *scene.Dict) (tracer.Scene, error) {
	tr.loadedScenes++
	return &pngScene{tr: tr, sensors: scene.CountSensors(graph), graph: graph}, nil
}

func (tr *pngTracer) Render(sc tracer.Scene, req tracer.RenderRequest) (tracer.Image, error) {
	tr.renders = append(tr.renders, req)
	return pngImage{w: 4, h: 3}, nil
}

func (tr *pngTracer) ImageFormat() string { return "png" }
func (tr *pngTracer) Close()              { tr.closed = true }

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func writeTexture(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
}

const cubeScene = `{
	"Objects": [{"Name": "cube", "Definition": [{
		"File": "meshes/cube.obj",
		"Material": {"Type": "Textured", "ColorMap": "textures/cube.png"},
		"Instances": [{}]
	}]}],
	"ObjectsInstances": [{"Ref": "cube", "Instances": [{"Translate": [0, 0, 0]}]}],
	"Lights": [{"Name": "bulb", "Type": "PointLight", "Instances": [{"Position": [0, 4, 0], "Intensity": 20}]}],
	"Cameras": [{"Name": "main", "Instances": [{"Eye": [0, 1, 6], "At": [0, 0, 0], "Up": [0, 1, 0]}]}],
	"Scene": {"Name": "cube", "Resolution": [4, 3], "Quality": 8, "Frames": [1, 1]}
}`

func TestRenderTexturedCube(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scene.json"), []byte(cubeScene))
	writeFile(t, filepath.Join(dir, "meshes/cube.obj"), []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	writeTexture(t, filepath.Join(dir, "textures/cube.png"))

	doc, err := document.Read(filepath.Join(dir, "scene.json"))
	require.NoError(t, err)

	tr := newPNGTracer()
	first, last := doc.Scene.FrameRange()
	outDir := filepath.Join(dir, "out")
	r, err := NewDefault(compiler.New(doc, tr), tr, Options{
		SceneName:       doc.Scene.SceneName(),
		FirstFrame:      first,
		LastFrame:       last,
		SamplesPerPixel: doc.Scene.SamplesPerPixel(),
		OutputDir:       outDir,
	})
	require.NoError(t, err)

	require.NoError(t, r.Render(context.Background()))
	r.Close()

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cube_cam-0_frame-0001.png", entries[0].Name())

	assert.Equal(t, []tracer.RenderRequest{{SamplesPerPixel: 8, Sensor: 0}}, tr.renders)
	assert.Equal(t, 1, tr.loadedScenes)
	assert.Equal(t, 1, tr.closedScenes)
	assert.True(t, tr.closed)

	stats := r.Stats()
	require.Len(t, stats.Frames, 1)
	assert.Equal(t, 1, stats.Frames[0].Frame)
	assert.Equal(t, 1, stats.Frames[0].Objects)
	assert.Equal(t, 1, stats.Frames[0].Lights)
	assert.Equal(t, 1, stats.Images())
}

// staticCompiler returns the same graph for every frame.
type staticCompiler struct {
	graph  *scene.Dict
	frames []int
	err    error
}

func (c *staticCompiler) CompileFrame(frameID int) (*scene.Dict, compiler.Counts, error) {
	c.frames = append(c.frames, frameID)
	return c.graph, compiler.Counts{Cameras: scene.CountSensors(c.graph)}, c.err
}

func twoCameraGraph() *scene.Dict {
	return scene.New("scene").
		Set("sensor__a_inst_1", scene.New("perspective")).
		Set("sensor__b_inst_1", scene.New("perspective"))
}

func TestRenderFramesAndCamerasInOrder(t *testing.T) {
	tr := newPNGTracer()
	comp := &staticCompiler{graph: twoCameraGraph()}
	outDir := t.TempDir()

	r, err := NewDefault(comp, tr, Options{SceneName: "s", FirstFrame: 3, LastFrame: 4, SamplesPerPixel: 2, OutputDir: outDir})
	require.NoError(t, err)
	require.NoError(t, r.Render(context.Background()))

	assert.Equal(t, []int{3, 4}, comp.frames)
	require.Len(t, tr.renders, 4)
	assert.Equal(t, []int{0, 1, 0, 1}, []int{tr.renders[0].Sensor, tr.renders[1].Sensor, tr.renders[2].Sensor, tr.renders[3].Sensor})

	for _, name := range []string{"s_cam-0_frame-0003.png", "s_cam-1_frame-0003.png", "s_cam-0_frame-0004.png", "s_cam-1_frame-0004.png"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
	assert.Equal(t, 2, tr.closedScenes)
}

func TestRenderAbortsOnCompileError(t *testing.T) {
	tr := newPNGTracer()
	compileErr := errors.New("boom")
	comp := &staticCompiler{graph: twoCameraGraph(), err: compileErr}

	r, err := NewDefault(comp, tr, Options{SceneName: "s", FirstFrame: 0, LastFrame: 5, OutputDir: t.TempDir()})
	require.NoError(t, err)

	err = r.Render(context.Background())
	assert.ErrorIs(t, err, compileErr)
	assert.Equal(t, []int{0}, comp.frames)
	assert.Empty(t, tr.renders)
}

func TestRenderInterrupted(t *testing.T) {
	tr := newPNGTracer()
	comp := &staticCompiler{graph: twoCameraGraph()}
	r, err := NewDefault(comp, tr, Options{SceneName: "s", FirstFrame: 0, LastFrame: 0, OutputDir: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Render(ctx), ErrInterrupted)
}

func TestNewDefaultValidatesOptions(t *testing.T) {
	tr := newPNGTracer()
	comp := &staticCompiler{graph: twoCameraGraph()}

	_, err := NewDefault(comp, tr, Options{FirstFrame: 2, LastFrame: 1})
	assert.ErrorIs(t, err, ErrInvalidFrameRange)

	_, err = NewDefault(nil, tr, Options{})
	assert.ErrorIs(t, err, ErrNoCompiler)

	_, err = NewDefault(comp, nil, Options{})
	assert.ErrorIs(t, err, ErrNoTracer)
}

func TestImageFilename(t *testing.T) {
	opts := Options{SceneName: "forest", OutputDir: "/out"}
	assert.Equal(t, filepath.Join("/out", "forest_cam-2_frame-0042.exr"), opts.ImageFilename(2, 42, "exr"))
	opts.OutputDir = ""
	assert.Equal(t, "forest_cam-0_frame-0001.png", opts.ImageFilename(0, 1, "png"))
}
