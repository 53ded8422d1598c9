// Package mitsuba renders scene graphs with the Mitsuba 3 command line
// renderer. Scenes are written as XML files into a work directory and
// rendered one sensor at a time.
package mitsuba

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"cogentcore.org/core/base/exec"

	"github.com/jgain/EcoViz/log"
	"github.com/jgain/EcoViz/scene"
	"github.com/jgain/EcoViz/scene/writer"
	"github.com/jgain/EcoViz/tracer"
)

const (
	// The extension of the images written by the renderer.
	imageFormat = "exr"

	// The name of the scene parameter holding the sample count.
	sppParam = "spp"

	defaultExecutable = "mitsuba"
	defaultVariant    = "scalar_rgb"

	defaultSamplesPerPixel = 128
)

// Options configure the renderer invocation.
type Options struct {
	// Path to the renderer executable.
	Executable string

	// Extra arguments passed before the scene file.
	ExtraArgs []string

	// The renderer variant, e.g. scalar_rgb or cuda_ad_rgb.
	Variant string

	// Worker thread count; values below 2 select the renderer default.
	Threads int

	// Parent directory for the work directory; empty selects the system temp dir.
	WorkDir string

	// Keep the generated scene files when the tracer is closed.
	KeepSceneFiles bool

	// Environment variables passed to the renderer.
	Env map[string]string
}

type mitsubaTracer struct {
	logger  log.Logger
	opts    Options
	objects *tracer.ObjectRegistry
	workDir string

	scenes  int
	renders int
}

// NewTracer creates a tracer that invokes the Mitsuba command line renderer.
func NewTracer(opts Options) (tracer.Tracer, error) {
	if opts.Executable == "" {
		opts.Executable = defaultExecutable
	}
	if opts.Variant == "" {
		opts.Variant = defaultVariant
	}

	workDir, err := os.MkdirTemp(opts.WorkDir, "ecoviz-")
	if err != nil {
		return nil, fmt.Errorf("mitsuba: could not create work directory: %w", err)
	}

	tr := &mitsubaTracer{
		logger:  log.New(fmt.Sprintf("mitsuba tracer (%s)", opts.Variant)),
		opts:    opts,
		objects: tracer.NewObjectRegistry(),
		workDir: workDir,
	}
	tr.logger.Infof("using work directory %s", workDir)
	if opts.Threads >= 2 {
		tr.logger.Noticef("thread count set to %d", opts.Threads)
	}
	return tr, nil
}

// Get tracer id.
func (tr *mitsubaTracer) Id() string {
	return "mitsuba-" + tr.opts.Variant
}

func (tr *mitsubaTracer) LoadObject(node *scene.Dict) (*scene.Handle, error) {
	return tr.objects.LoadObject(node)
}

// LoadScene writes graph as an XML scene file. Every sensor receives a
// sampler whose sample count is bound at render time.
func (tr *mitsubaTracer) LoadScene(graph *scene.Dict) (tracer.Scene, error) {
	tr.scenes++
	path := filepath.Join(tr.workDir, fmt.Sprintf("scene-%04d.xml", tr.scenes))

	err := writer.WriteSceneWith(
		writer.NewXMLWriter(writer.Default{Name: sppParam, Value: strconv.Itoa(defaultSamplesPerPixel)}),
		withSamplers(graph),
		path,
	)
	if err != nil {
		return nil, err
	}

	tr.logger.Debugf("wrote scene file %s", path)
	return &sceneFile{
		path:    path,
		sensors: scene.CountSensors(graph),
		keep:    tr.opts.KeepSceneFiles,
	}, nil
}

// Render a single sensor of a loaded scene.
func (tr *mitsubaTracer) Render(sc tracer.Scene, req tracer.RenderRequest) (tracer.Image, error) {
	sf, ok := sc.(*sceneFile)
	if !ok {
		return nil, fmt.Errorf("mitsuba: scene %T was not loaded by this tracer", sc)
	}
	if sf.closed {
		return nil, tracer.ErrSceneClosed
	}
	if req.Sensor < 0 || req.Sensor >= sf.sensors {
		return nil, fmt.Errorf("%w: %d (scene has %d)", tracer.ErrSensorOutOfRange, req.Sensor, sf.sensors)
	}

	tr.renders++
	out := filepath.Join(tr.workDir, fmt.Sprintf("render-%04d.%s", tr.renders, imageFormat))

	cmd := exec.Verbose().SetBuffer(false)
	for k, v := range tr.opts.Env {
		cmd.SetEnv(k, v)
	}
	if err := cmd.Run(tr.opts.Executable, tr.args(sf.path, out, req)...); err != nil {
		return nil, fmt.Errorf("mitsuba: rendering sensor %d of %s: %w", req.Sensor, sf.path, err)
	}
	return stagedImage(out), nil
}

func (tr *mitsubaTracer) args(scenePath, out string, req tracer.RenderRequest) []string {
	args := []string{"-m", tr.opts.Variant}
	if tr.opts.Threads >= 2 {
		// The renderer spawns one extra thread of its own.
		args = append(args, "-t", strconv.Itoa(tr.opts.Threads-1))
	}
	args = append(args, tr.opts.ExtraArgs...)
	return append(args,
		"-D", fmt.Sprintf("%s=%d", sppParam, req.SamplesPerPixel),
		"-s", strconv.Itoa(req.Sensor),
		"-o", out,
		scenePath,
	)
}

func (tr *mitsubaTracer) ImageFormat() string {
	return imageFormat
}

// Shutdown and cleanup tracer.
func (tr *mitsubaTracer) Close() {
	if tr.opts.KeepSceneFiles {
		tr.logger.Noticef("keeping scene files in %s", tr.workDir)
		return
	}
	if err := os.RemoveAll(tr.workDir); err != nil {
		tr.logger.Warningf("could not remove work directory %s: %v", tr.workDir, err)
	}
}

// withSamplers returns a copy of graph whose sensors carry a sampler bound
// to the sample count parameter. Nodes shared with graph are not modified.
func withSamplers(graph *scene.Dict) *scene.Dict {
	out := graph.Clone()
	for _, key := range out.Keys() {
		v, _ := out.Get(key)
		sensor, ok := v.(*scene.Dict)
		if !ok {
			continue
		}
		if class, _ := scene.PluginClass(sensor.Type()); class != scene.ClassSensor || sensor.Has("sampler") {
			continue
		}
		out.Set(key, sensor.Clone().Set("sampler", scene.New("independent").
			Set("sample_count", scene.Param{Name: sppParam, Class: "integer"})))
	}
	return out
}

// A scene written to disk.
type sceneFile struct {
	path    string
	sensors int
	keep    bool
	closed  bool
}

func (sf *sceneFile) Sensors() int {
	return sf.sensors
}

func (sf *sceneFile) Close() error {
	if sf.closed {
		return nil
	}
	sf.closed = true
	if sf.keep {
		return nil
	}
	return os.Remove(sf.path)
}

// An image rendered into the work directory.
type stagedImage string

// Write moves the image to filename. The extension of filename must match
// the image format.
func (img stagedImage) Write(filename string) error {
	if filepath.Ext(filename) != "."+imageFormat {
		return fmt.Errorf("mitsuba: cannot write %s images to %s", imageFormat, filename)
	}
	if err := os.Rename(string(img), filename); err == nil {
		return nil
	}
	return copyFile(string(img), filename)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
