package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "warning"

[renderer]
extra_args = "-a '/data/my assets' -q"
keep_scene_files = true

[renderer.env]
DRJIT_LIBLLVM_PATH = "/usr/lib/libLLVM.so"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warning", cfg.Log.Level)
	assert.Equal(t, BackendMitsuba, cfg.Renderer.Backend)
	assert.Equal(t, "mitsuba", cfg.Renderer.Executable)
	assert.True(t, cfg.Renderer.KeepSceneFiles)
	assert.Equal(t, map[string]string{"DRJIT_LIBLLVM_PATH": "/usr/lib/libLLVM.so"}, cfg.Renderer.Env)
	assert.Equal(t, ".", cfg.Output.Dir)

	args, err := cfg.RendererArgs()
	require.NoError(t, err)
	assert.Equal(t, []string{"-a", "/data/my assets", "-q"}, args)
}

func TestLoadExpandsHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	cfg := Default()
	require.NoError(t, Decode([]byte("[output]\ndir = \"~/renders\"\n"), cfg))
	assert.Equal(t, filepath.Join(home, "renders"), cfg.Output.Dir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "an explicit config path must exist")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nbackends = \"x\"\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err, "unknown keys are rejected")

	cfg := Default()
	cfg.Renderer.ExtraArgs = `-a "unterminated`
	_, err = cfg.RendererArgs()
	assert.Error(t, err)
}
