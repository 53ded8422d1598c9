package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newContext builds a command context the way the application does:
// global flags on the parent, command flags on the child.
func newContext(t *testing.T, cmdFlags []cli.Flag, args ...string) *cli.Context {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "render.toml")
	writeFile(t, cfgPath, "")

	globalSet := flag.NewFlagSet("ecoviz", flag.ContinueOnError)
	globalSet.Bool("v", false, "")
	globalSet.Bool("vv", false, "")
	globalSet.String("config", cfgPath, "")

	set := flag.NewFlagSet("command", flag.ContinueOnError)
	for _, f := range cmdFlags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))

	app := cli.NewApp()
	return cli.NewContext(app, set, cli.NewContext(app, globalSet, nil))
}
