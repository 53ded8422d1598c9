package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jgain/EcoViz/asset"
	"github.com/jgain/EcoViz/config"
	"github.com/jgain/EcoViz/renderer"
	"github.com/urfave/cli"
)

// Changes arriving within this interval trigger a single render.
const watchSettleDelay = 250 * time.Millisecond

// Render a scene document and render it again whenever the document or one
// of its local imports changes.
func WatchScene(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	path, err := asset.ResolvePath(ctx.Args().First(), "")
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watched := rerender(runCtx, ctx, cfg, path, watcher, nil)

	settle := time.NewTimer(watchSettleDelay)
	settle.Stop()
	for {
		select {
		case <-runCtx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Infof("detected change in %s", event.Name)
			settle.Reset(watchSettleDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)
		case <-settle.C:
			watched = rerender(runCtx, ctx, cfg, path, watcher, watched)
		}
	}
}

// Render the document once and update the watch list with its local sources.
// Render errors are logged, not returned.
func rerender(runCtx context.Context, ctx *cli.Context, cfg *config.Config, path string, watcher *fsnotify.Watcher, watched map[string]bool) map[string]bool {
	stats, sources, err := renderDocument(runCtx, ctx, cfg, path)
	switch {
	case errors.Is(err, renderer.ErrInterrupted):
		return watched
	case err != nil:
		logger.Errorf("render failed: %v", err)
	default:
		displayRunStats(stats)
	}

	if sources == nil {
		if watched != nil {
			return watched
		}
		sources = []string{path}
	}
	return watchSources(watcher, sources)
}

// Watch the directories holding the local sources so that files replaced
// by editors stay tracked.
func watchSources(watcher *fsnotify.Watcher, sources []string) map[string]bool {
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, src := range sources {
		if asset.IsRemotePath(src) {
			continue
		}
		src = filepath.Clean(src)
		watched[src] = true

		dir := filepath.Dir(src)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			logger.Warningf("could not watch %s: %v", dir, err)
		}
	}
	logger.Noticef("watching %d scene files for changes", len(watched))
	return watched
}
