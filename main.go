package main

import (
	"fmt"
	"os"

	"github.com/jgain/EcoViz/cmd"
	"github.com/jgain/EcoViz/config"
	"github.com/jgain/EcoViz/scene/writer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	outDirFlag := cli.StringFlag{
		Name:  "out-dir, o",
		Usage: "output directory (overrides [output] dir)",
	}
	framesFlag := cli.StringFlag{
		Name:  "frames, f",
		Usage: "restrict processing to the frames first:last of the scene",
	}
	renderFlags := []cli.Flag{
		outDirFlag,
		framesFlag,
		cli.IntFlag{
			Name:  "spp",
			Usage: "samples per pixel (overrides the scene Quality)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "renderer backend (overrides [renderer] backend)",
		},
		cli.BoolFlag{
			Name:  "keep-scene-files",
			Usage: "keep the scene files staged for the renderer",
		},
	}

	app := cli.NewApp()
	app.Name = "ecoviz"
	app.Usage = "compile JSON scene descriptions and render them with Mitsuba"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: fmt.Sprintf("configuration file (default %s)", config.DefaultPath),
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render every frame and camera of a scene",
			Description: `
Read a JSON scene description together with its imports, compile a scene graph
for each frame of the scene and render one image per camera with the external
renderer.

Images are written as <Name>_cam-<camera>_frame-<frame>.exr to the output
directory.`,
			ArgsUsage: "scene.json",
			Flags:     renderFlags,
			Action:    cmd.RenderScene,
		},
		{
			Name:  "compile",
			Usage: "compile the per-frame scene graphs without rendering",
			Description: `
Compile the scene graph of each frame and write it as
<Name>_frame-<frame>.<format> to the output directory.`,
			ArgsUsage: "scene.json",
			Flags: []cli.Flag{
				outDirFlag,
				framesFlag,
				cli.StringFlag{
					Name:  "format",
					Value: "xml",
					Usage: fmt.Sprintf("output format %v", writer.Formats),
				},
			},
			Action: cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "display the contents of a scene",
			ArgsUsage: "scene.json",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:      "watch",
			Usage:     "render a scene and render it again when it changes",
			ArgsUsage: "scene.json",
			Flags:     renderFlags,
			Action:    cmd.WatchScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
