package document

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const rootDoc = `{
	"Objects": [
		{"Name": "tree", "Definition": [{
			"File": "meshes/tree.obj",
			"Material": {"Type": "Textured", "ColorMap": "tex/bark.png", "NormalMap": "tex/bark_n.png", "UVScale": 2},
			"Instances": [{"Translate": [1, 0, 0]}]
		}]},
		{"Name": "unused", "Definition": [{"File": "meshes/rock.serialized", "Instances": [{}]}]}
	],
	"ObjectsInstances": [{"Ref": "tree", "Instances": [{"Scale": [2, 2, 2]}]}],
	"Lights": [{"Name": "A", "Type": "PointLight", "Instances": [{"Position": [0, 10, 0], "Intensity": 100}]}],
	"Cameras": [{"Name": "main", "Instances": [{"Eye": [0, 0, 5], "At": [0, 0, 0], "Up": [0, 1, 0]}]}],
	"Scene": {"Name": "forest", "Frames": [1, 1]},
	"Import": ["parts/lights.json"]
}`

const lightsDoc = `{
	"Lights": [
		{"Name": "B", "Type": "Envmap", "File": "sky.exr", "Instances": [{"Rotate": [0, 90, 0]}]}
	],
	"Import": ["../more/sun.json"]
}`

const sunDoc = `{
	"Lights": [{"Name": "sun", "Type": "DirectionalLight", "Instances": [{"Direction": [0, -1, 0], "Irradiance": [1, 1, 1]}]}],
	"Import": ["../parts/lights.json"]
}`

func TestReadResolvesPathsAndMergesImports(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "scene.json"), rootDoc)
	writeJSON(t, filepath.Join(dir, "parts/lights.json"), lightsDoc)
	writeJSON(t, filepath.Join(dir, "more/sun.json"), sunDoc)

	doc, err := Read(filepath.Join(dir, "scene.json"))
	require.NoError(t, err)

	// Lights are concatenated root first, then in import order.
	require.Len(t, doc.Lights, 3)
	assert.Equal(t, "A", doc.Lights[0].Name)
	assert.Equal(t, "B", doc.Lights[1].Name)
	assert.Equal(t, "sun", doc.Lights[2].Name)

	// Paths are anchored at the directory of the declaring document.
	assert.Equal(t, filepath.Join(dir, "parts/sky.exr"), doc.Lights[1].File)
	require.Len(t, doc.Objects, 1, "unreferenced objects are pruned")
	def := doc.Objects[0].Definition[0]
	assert.Equal(t, filepath.Join(dir, "meshes/tree.obj"), def.File)

	tex, ok := def.Material.Material.(*TexturedMaterial)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "tex/bark.png"), tex.ColorMap)
	assert.Equal(t, filepath.Join(dir, "tex/bark_n.png"), tex.NormalMap)
	assert.Empty(t, tex.BumpMap)

	// The cyclic import back to lights.json is loaded only once.
	assert.Len(t, doc.Sources, 3)
}

func TestReadMissingImportIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "scene.json"), `{"Scene": {"Name": "x", "Frames": [0, 0]}, "Import": ["nope.json"]}`)

	_, err := Read(filepath.Join(dir, "scene.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRemoteImport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scenes/root.json":
			w.Write([]byte(`{"Scene": {"Name": "remote", "Frames": [0, 0]}, "Import": ["cams.json"]}`))
		case "/scenes/cams.json":
			w.Write([]byte(`{"Cameras": [{"Name": "c", "Instances": [{"Eye": [1,1,1], "At": [0,0,0], "Up": [0,1,0]}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	doc, err := Read(server.URL + "/scenes/root.json")
	require.NoError(t, err)
	require.Len(t, doc.Cameras, 1)
	assert.Equal(t, "c", doc.Cameras[0].Name)
}

func TestMergeLastWinsForSettings(t *testing.T) {
	dst := &Document{Scene: &Settings{Name: "first"}, Lights: []*Light{{Name: "A"}}}
	Merge(dst, &Document{Scene: &Settings{Name: "second"}, Lights: []*Light{{Name: "B"}}})
	Merge(dst, &Document{Lights: []*Light{{Name: "C"}}})

	assert.Equal(t, "second", dst.Scene.Name)
	require.Len(t, dst.Lights, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{dst.Lights[0].Name, dst.Lights[1].Name, dst.Lights[2].Name})
}

func TestDecodeMaterialVariants(t *testing.T) {
	var defs []*MeshDefinition
	data := `[
		{"File": "a.obj", "Material": {"Type": "Blended", "Layers": [{"ColorMap": "base.png"}, {"ColorMap": "moss.png", "AlphaMap": "moss_a.png"}]}},
		{"File": "b.obj", "Material": {"Type": "DiffuseColor", "Color": [0.2, 0.4, 0.6]}},
		{"File": "c.obj", "Material": {"Type": "Velvet"}},
		{"File": "d.obj"}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &defs))

	blended, ok := defs[0].Material.Material.(*BlendedMaterial)
	require.True(t, ok)
	require.Len(t, blended.Layers, 2)
	assert.Equal(t, "moss_a.png", blended.Layers[1].AlphaMap)

	diffuse, ok := defs[1].Material.Material.(*DiffuseColorMaterial)
	require.True(t, ok)
	assert.InDelta(t, 0.4, (*diffuse.Color)[1], 1e-6)

	unknown, ok := defs[2].Material.Material.(*UnknownMaterial)
	require.True(t, ok)
	assert.Equal(t, "Velvet", unknown.Type)

	assert.Nil(t, defs[3].Material)
}

func TestDecodeLights(t *testing.T) {
	var lights []*Light
	data := `[
		{"Name": "amb", "Type": "Ambient", "Instances": [{"Intensity": [0.1, 0.1, 0.1]}]},
		{"Name": "bulb", "Type": "PointLight", "Frames": [{"Instances": []}, {"Instances": [{"Position": [1,2,3], "Intensity": [1, 2, 3]}]}]},
		{"Name": "sky", "Type": "Envmap", "File": "sky.exr", "Instances": [{"Rotate": [0, 0, 0]}]}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &lights))

	amb := lights[0].Select(true, 0)
	require.Len(t, amb, 1)
	assert.Equal(t, LightAmbient, amb[0].LightType())

	assert.Nil(t, lights[1].Select(true, 1))
	frame := lights[1].Select(false, 1)
	require.Len(t, frame, 1)
	point := frame[0].(PointInstance)
	assert.Equal(t, Spectrum{1, 2, 3}, point.Intensity)

	env := lights[2].Select(true, 0)[0].(EnvmapInstance)
	assert.Equal(t, float32(1.0), env.Scale())
}

func TestDecodeScalarLightColors(t *testing.T) {
	var lights []*Light
	data := `[
		{"Name": "amb", "Type": "Ambient", "Instances": [{"Intensity": 0.5}]},
		{"Name": "sun", "Type": "DirectionalLight", "Instances": [{"Direction": [0, -1, 0], "Irradiance": 2}]},
		{"Name": "sky", "Type": "Envmap", "File": "sky.exr", "Instances": [{"Intensity": 0}]}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &lights))

	amb := lights[0].Select(true, 0)[0].(AmbientInstance)
	assert.Equal(t, Color{0.5, 0.5, 0.5}, amb.Intensity)

	sun := lights[1].Select(true, 0)[0].(DirectionalInstance)
	assert.Equal(t, Color{2, 2, 2}, sun.Irradiance)

	env := lights[2].Select(true, 0)[0].(EnvmapInstance)
	assert.Equal(t, float32(1.0), env.Scale())

	err := json.Unmarshal([]byte(`[{"Name": "amb", "Type": "Ambient", "Instances": [{"Intensity": [1, 2]}]}]`), &lights)
	assert.Error(t, err)
}

func TestDecodeUnsupportedLightType(t *testing.T) {
	var light Light
	err := json.Unmarshal([]byte(`{"Name": "laser", "Type": "SpotLight"}`), &light)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported light type "SpotLight"`)
}

func TestValidate(t *testing.T) {
	valid := func() *Document {
		return &Document{
			Scene:   &Settings{Name: "s", Frames: []int{0, 1}},
			Objects: []*Object{{Name: "o", Definition: []*MeshDefinition{{File: "/m/o.obj"}}}},
		}
	}
	require.NoError(t, Validate(valid()))

	specs := map[string]func(d *Document){
		"missing settings": func(d *Document) { d.Scene = nil },
		"bad frame range":  func(d *Document) { d.Scene.Frames = []int{3, 1} },
		"bad mesh format":  func(d *Document) { d.Objects[0].Definition[0].File = "/m/o.fbx" },
		"duplicate object": func(d *Document) { d.Objects = append(d.Objects, d.Objects[0]) },
		"unknown ref":      func(d *Document) { d.ObjectsInstances = []*ObjectInstances{{Ref: "nope"}} },
		"short frames": func(d *Document) {
			d.ObjectsInstances = []*ObjectInstances{{Ref: "o", Timeline: Timeline[Placement]{Frames: make([]FrameInstances[Placement], 1)}}}
		},
		"normal and bump": func(d *Document) {
			d.Objects[0].Definition[0].Material = &MaterialSpec{&TexturedMaterial{ColorMap: "c.png", NormalMap: "n.png", BumpMap: "b.png"}}
		},
		"layer without alpha": func(d *Document) {
			d.Objects[0].Definition[0].Material = &MaterialSpec{&BlendedMaterial{Layers: []*BlendLayer{{}, {}}}}
		},
	}

	for name, mutate := range specs {
		doc := valid()
		mutate(doc)
		assert.Error(t, Validate(doc), name)
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := &Settings{Name: "s", Frames: []int{2, 5}}
	w, h := s.Size()
	assert.Equal(t, []int{DefaultWidth, DefaultHeight}, []int{w, h})
	assert.Equal(t, DefaultSamplesPerPixel, s.SamplesPerPixel())
	assert.Equal(t, DefaultVariant, s.Variant())
	assert.Equal(t, -1, s.ThreadCount())
	assert.Equal(t, float32(DefaultFOV), s.FieldOfView(&Camera{}))

	fov := float32(60)
	s.FOV = &fov
	assert.Equal(t, float32(60), s.FieldOfView(&Camera{}))

	camFOV := float32(30)
	assert.Equal(t, float32(30), s.FieldOfView(&Camera{FOV: &camFOV}))
}
