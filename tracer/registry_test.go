package tracer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jgain/EcoViz/scene"
)

func TestObjectRegistryAssignsIds(t *testing.T) {
	meshFile := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(meshFile, []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewObjectRegistry()
	specs := []struct {
		node  *scene.Dict
		expID string
	}{
		{scene.New("twosided"), "twosided_1"},
		{scene.New("obj").Set("filename", meshFile), "obj_1"},
		{scene.New("twosided"), "twosided_2"},
	}

	for index, spec := range specs {
		h, err := r.LoadObject(spec.node)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if h.ID != spec.expID {
			t.Errorf("[spec %d] expected id %q; got %q", index, spec.expID, h.ID)
		}
		if h.Node != spec.node {
			t.Errorf("[spec %d] expected handle to wrap the loaded node", index)
		}
	}

	if r.Loaded() != len(specs) {
		t.Fatalf("expected %d loaded objects; got %d", len(specs), r.Loaded())
	}
}

func TestObjectRegistryRejectsMissingMeshes(t *testing.T) {
	r := NewObjectRegistry()

	_, err := r.LoadObject(scene.New("obj").Set("filename", filepath.Join(t.TempDir(), "missing.obj")))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error; got %v", err)
	}

	if _, err = r.LoadObject(scene.New("unicorn")); err == nil {
		t.Fatal("expected an error for unknown plugin types")
	}
}
