package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jgain/EcoViz/asset/compiler"
	"github.com/jgain/EcoViz/asset/document"
	"github.com/jgain/EcoViz/config"
	"github.com/jgain/EcoViz/renderer"
	"github.com/jgain/EcoViz/tracer"
	"github.com/jgain/EcoViz/tracer/mitsuba"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render every frame and camera of a scene document.
func RenderScene(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats, _, err := renderDocument(runCtx, ctx, cfg, ctx.Args().First())
	if err != nil {
		return err
	}

	displayRunStats(stats)
	return nil
}

// Read, compile and render a scene document. The files the document was
// read from are returned whenever reading succeeded.
func renderDocument(runCtx context.Context, ctx *cli.Context, cfg *config.Config, path string) (renderer.RunStats, []string, error) {
	doc, err := document.Read(path)
	if err != nil {
		return renderer.RunStats{}, nil, err
	}

	opts, err := rendererOptions(ctx, cfg, doc)
	if err != nil {
		return renderer.RunStats{}, doc.Sources, err
	}

	tr, err := newTracer(cfg, doc)
	if err != nil {
		return renderer.RunStats{}, doc.Sources, err
	}

	r, err := renderer.NewDefault(compiler.New(doc, tr), tr, opts)
	if err != nil {
		tr.Close()
		return renderer.RunStats{}, doc.Sources, err
	}
	defer r.Close()

	err = r.Render(runCtx)
	return r.Stats(), doc.Sources, err
}

func newTracer(cfg *config.Config, doc *document.Document) (tracer.Tracer, error) {
	if cfg.Renderer.Backend != config.BackendMitsuba {
		return nil, fmt.Errorf("unsupported renderer backend %q", cfg.Renderer.Backend)
	}

	extraArgs, err := cfg.RendererArgs()
	if err != nil {
		return nil, err
	}

	return mitsuba.NewTracer(mitsuba.Options{
		Executable:     cfg.Renderer.Executable,
		ExtraArgs:      extraArgs,
		Variant:        doc.Scene.Variant(),
		Threads:        doc.Scene.ThreadCount(),
		WorkDir:        cfg.Renderer.WorkDir,
		KeepSceneFiles: cfg.Renderer.KeepSceneFiles,
		Env:            cfg.Renderer.Env,
	})
}

func rendererOptions(ctx *cli.Context, cfg *config.Config, doc *document.Document) (renderer.Options, error) {
	first, last := doc.Scene.FrameRange()
	if frames := ctx.String("frames"); frames != "" {
		var err error
		if first, last, err = parseFrameRange(frames, first, last); err != nil {
			return renderer.Options{}, err
		}
	}

	spp := doc.Scene.SamplesPerPixel()
	if n := ctx.Int("spp"); n != 0 {
		spp = n
	}
	if spp <= 0 {
		return renderer.Options{}, fmt.Errorf("invalid sample count %d", spp)
	}

	return renderer.Options{
		SceneName:       doc.Scene.SceneName(),
		FirstFrame:      first,
		LastFrame:       last,
		SamplesPerPixel: spp,
		OutputDir:       cfg.Output.Dir,
	}, nil
}

// Parse a frame selection of the form "a:b" that must lie inside
// the document frame range [first, last].
func parseFrameRange(spec string, first, last int) (int, int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid frame range %q; expected first:last", spec)
	}

	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid frame range %q: %w", spec, err)
	}
	to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid frame range %q: %w", spec, err)
	}

	if from > to || from < first || to > last {
		return 0, 0, fmt.Errorf("frame range %d:%d is outside of the scene frames %d:%d", from, to, first, last)
	}
	return from, to, nil
}

func displayRunStats(stats renderer.RunStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Camera", "Image", "Objects", "Lights", "Render time"})
	for _, frame := range stats.Frames {
		for _, sensor := range frame.Sensors {
			table.Append([]string{
				fmt.Sprintf("%d", frame.Frame),
				fmt.Sprintf("%d", sensor.Camera),
				sensor.Image,
				fmt.Sprintf("%d", frame.Objects),
				fmt.Sprintf("%d", frame.Lights),
				sensor.RenderTime.String(),
			})
		}
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("%d images", stats.Images()), "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
