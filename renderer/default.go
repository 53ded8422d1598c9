package renderer

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/jgain/EcoViz/log"
	"github.com/jgain/EcoViz/tracer"
)

type defaultRenderer struct {
	logger   log.Logger
	compiler FrameCompiler
	tracer   tracer.Tracer
	opts     Options
	stats    RunStats
}

// NewDefault creates a renderer that compiles, loads and renders every
// frame of the configured range and writes one image per sensor.
func NewDefault(comp FrameCompiler, tr tracer.Tracer, opts Options) (Renderer, error) {
	if comp == nil {
		return nil, ErrNoCompiler
	}
	if tr == nil {
		return nil, ErrNoTracer
	}
	if opts.FirstFrame < 0 || opts.FirstFrame > opts.LastFrame {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidFrameRange, opts.FirstFrame, opts.LastFrame)
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("renderer: could not create output directory: %w", err)
		}
	}

	return &defaultRenderer{
		logger:   log.New("renderer"),
		compiler: comp,
		tracer:   tr,
		opts:     opts,
	}, nil
}

// Render all frames. Frames are processed strictly in order; the first
// error aborts the run.
func (r *defaultRenderer) Render(ctx context.Context) error {
	start := time.Now()
	r.stats = RunStats{}
	r.logger.Noticef(
		"rendering frames %d to %d of %q with %s (%d spp)",
		r.opts.FirstFrame, r.opts.LastFrame, r.opts.SceneName, r.tracer.Id(), r.opts.SamplesPerPixel,
	)

	for frameID := r.opts.FirstFrame; frameID <= r.opts.LastFrame; frameID++ {
		frameStats, err := r.renderFrame(ctx, frameID)
		if frameStats != nil {
			r.stats.Frames = append(r.stats.Frames, *frameStats)
		}
		if err != nil {
			return err
		}
	}

	r.stats.RenderTime = time.Since(start)
	r.logger.Noticef("rendered %d images in %d ms", r.stats.Images(), r.stats.RenderTime.Nanoseconds()/1e6)
	return nil
}

func (r *defaultRenderer) renderFrame(ctx context.Context, frameID int) (*FrameStats, error) {
	if ctx.Err() != nil {
		return nil, ErrInterrupted
	}

	frameStart := time.Now()
	stats := &FrameStats{Frame: frameID}

	graph, counts, err := r.compiler.CompileFrame(frameID)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frameID, err)
	}
	stats.Objects, stats.Lights, stats.Cameras = counts.Objects, counts.Lights, counts.Cameras
	stats.CompileTime = time.Since(frameStart)
	r.logger.Infof(
		"frame %d: %d objects, %d lights, %d cameras (compiled in %d ms)",
		frameID, counts.Objects, counts.Lights, counts.Cameras, stats.CompileTime.Nanoseconds()/1e6,
	)

	loadStart := time.Now()
	sc, err := r.tracer.LoadScene(graph)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frameID, err)
	}
	stats.LoadTime = time.Since(loadStart)

	err = r.renderSensors(ctx, sc, frameID, stats)
	if closeErr := sc.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("frame %d: %w", frameID, closeErr)
	}
	stats.HeapInUse = releaseMemory()
	stats.RenderTime = time.Since(frameStart)

	r.logger.Noticef(
		"frame %d: rendered %d sensors in %d ms (heap %s)",
		frameID, len(stats.Sensors), stats.RenderTime.Nanoseconds()/1e6, datasize.ByteSize(stats.HeapInUse).HumanReadable(),
	)
	return stats, err
}

func (r *defaultRenderer) renderSensors(ctx context.Context, sc tracer.Scene, frameID int, stats *FrameStats) error {
	sensors := sc.Sensors()
	if sensors == 0 {
		r.logger.Warningf("frame %d: scene defines no cameras", frameID)
		return nil
	}

	for camera := 0; camera < sensors; camera++ {
		if ctx.Err() != nil {
			return ErrInterrupted
		}

		start := time.Now()
		img, err := r.tracer.Render(sc, tracer.RenderRequest{
			SamplesPerPixel: r.opts.SamplesPerPixel,
			Sensor:          camera,
		})
		if err != nil {
			return fmt.Errorf("frame %d: camera %d: %w", frameID, camera, err)
		}

		filename := r.opts.ImageFilename(camera, frameID, r.tracer.ImageFormat())
		if err = img.Write(filename); err != nil {
			return fmt.Errorf("frame %d: camera %d: %w", frameID, camera, err)
		}

		stat := CameraStat{Camera: camera, Image: filename, RenderTime: time.Since(start)}
		stats.Sensors = append(stats.Sensors, stat)
		r.logger.Infof("wrote %s in %d ms", filename, stat.RenderTime.Nanoseconds()/1e6)
	}
	return nil
}

// releaseMemory forces a collection after a frame and returns the heap in use.
func releaseMemory() uint64 {
	runtime.GC()
	debug.FreeOSMemory()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return mem.HeapInuse
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.tracer.Close()
}

// Get render statistics.
func (r *defaultRenderer) Stats() RunStats {
	return r.stats
}
