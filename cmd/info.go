package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jgain/EcoViz/asset/document"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display the contents of a scene document.
func ShowSceneInfo(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	doc, err := document.Read(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", documentInfo(doc))
	return nil
}

func documentInfo(doc *document.Document) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Element", "Count", "Static", "Animated"})

	var static, animated int
	for _, inst := range doc.ObjectsInstances {
		static, animated = static+boolCount(inst.IsStatic()), animated+boolCount(inst.IsAnimated())
	}
	table.Append(row("Object instance lists", len(doc.ObjectsInstances), static, animated))

	static, animated = 0, 0
	for _, light := range doc.Lights {
		static, animated = static+boolCount(light.IsStatic()), animated+boolCount(light.IsAnimated())
	}
	table.Append(row("Lights", len(doc.Lights), static, animated))

	byType := make(map[document.LightType]int)
	for _, light := range doc.Lights {
		byType[light.Type]++
	}
	for _, lightType := range []document.LightType{
		document.LightAmbient, document.LightPoint, document.LightEnvmap, document.LightDirectional,
	} {
		if byType[lightType] != 0 {
			table.Append([]string{"  " + string(lightType), fmt.Sprintf("%d", byType[lightType]), "", ""})
		}
	}

	static, animated = 0, 0
	for _, cam := range doc.Cameras {
		static, animated = static+boolCount(cam.IsStatic()), animated+boolCount(cam.IsAnimated())
	}
	table.Append(row("Cameras", len(doc.Cameras), static, animated))

	var meshes, meshInstances int
	for _, obj := range doc.Objects {
		meshes += len(obj.Definition)
		for _, def := range obj.Definition {
			meshInstances += len(def.Instances)
		}
	}
	table.Append([]string{"Objects", fmt.Sprintf("%d (%d meshes)", len(doc.Objects), meshes), "", ""})
	table.Append([]string{"Mesh instances", fmt.Sprintf("%d", meshInstances), "", ""})
	table.Append([]string{"Documents", fmt.Sprintf("%d", len(doc.Sources)), "", ""})

	width, height := doc.Scene.Size()
	first, last := doc.Scene.FrameRange()
	table.SetFooter([]string{
		doc.Scene.SceneName(),
		fmt.Sprintf("%dx%d", width, height),
		fmt.Sprintf("%d spp", doc.Scene.SamplesPerPixel()),
		fmt.Sprintf("frames %d:%d", first, last),
	})

	table.Render()
	return buf.String()
}

func row(name string, count, static, animated int) []string {
	return []string{name, fmt.Sprintf("%d", count), fmt.Sprintf("%d", static), fmt.Sprintf("%d", animated)}
}

func boolCount(v bool) int {
	if v {
		return 1
	}
	return 0
}
