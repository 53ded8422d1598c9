package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const boxScene = `{
	"Objects": [{"Name": "box", "Definition": [{
		"File": "box.obj",
		"Material": {"Type": "DiffuseColor", "Color": [0.5, 0.5, 0.5]},
		"Instances": [{}]
	}]}],
	"ObjectsInstances": [{"Ref": "box", "Instances": [{}]}],
	"Cameras": [{"Name": "main", "Instances": [{"Eye": [0, 1, 6], "At": [0, 0, 0], "Up": [0, 1, 0]}]}],
	"Scene": {"Name": "box", "Frames": [0, 2]}
}`

var compileFlags = []cli.Flag{
	cli.StringFlag{Name: "out-dir, o"},
	cli.StringFlag{Name: "frames, f"},
	cli.StringFlag{Name: "format", Value: "xml"},
}

func writeBoxScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "box.obj"), "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	writeFile(t, filepath.Join(dir, "scene.json"), boxScene)
	return filepath.Join(dir, "scene.json")
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCompileSceneWritesOneFilePerFrame(t *testing.T) {
	scenePath := writeBoxScene(t)
	outDir := filepath.Join(t.TempDir(), "out")

	ctx := newContext(t, compileFlags, "--out-dir", outDir, "--format", "json", scenePath)
	require.NoError(t, CompileScene(ctx))

	assert.Equal(t, []string{"box_frame-0000.json", "box_frame-0001.json", "box_frame-0002.json"}, listDir(t, outDir))

	data, err := os.ReadFile(filepath.Join(outDir, "box_frame-0001.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sensor__main_inst_1"`)
	assert.Contains(t, string(data), `"box_inst_1"`)
}

func TestCompileSceneFrameSelection(t *testing.T) {
	scenePath := writeBoxScene(t)
	outDir := t.TempDir()

	ctx := newContext(t, compileFlags, "--out-dir", outDir, "--frames", "1:2", scenePath)
	require.NoError(t, CompileScene(ctx))
	assert.Equal(t, []string{"box_frame-0001.xml", "box_frame-0002.xml"}, listDir(t, outDir))

	ctx = newContext(t, compileFlags, "--out-dir", outDir, "--frames", "1:5", scenePath)
	assert.Error(t, CompileScene(ctx))
}

func TestCompileSceneErrors(t *testing.T) {
	scenePath := writeBoxScene(t)

	ctx := newContext(t, compileFlags, "--out-dir", t.TempDir())
	assert.Error(t, CompileScene(ctx), "missing scene argument")

	ctx = newContext(t, compileFlags, "--out-dir", t.TempDir(), "--format", "obj", scenePath)
	assert.Error(t, CompileScene(ctx), "unsupported format")
}
