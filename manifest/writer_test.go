package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/manifest"
)

func TestWriteModlistAndPlugins(t *testing.T) {
	dir := t.TempDir()

	err := manifest.Write(manifest.WriteOptions{
		OutputDir: dir,
		Mods: []manifest.ModEntry{
			{Name: "Unofficial Patch", Enabled: true},
			{Name: "Old Overhaul", Enabled: false},
		},
		Plugins: []manifest.PluginEntry{
			{Name: "USSEP.esp", Enabled: true},
			{Name: "Unused.esp", Enabled: false},
		},
		BaseGamePlugins: []string{"Skyrim.esm", "Update.esm"},
	})
	require.Nil(t, err)

	modlist, rerr := os.ReadFile(filepath.Join(dir, "modlist.txt"))
	require.NoError(t, rerr)
	require.Equal(t, "+Unofficial Patch\n-Old Overhaul\n", string(modlist))

	for _, name := range []string{"plugins.txt", "loadorder.txt"} {
		content, rerr := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, rerr)
		require.Equal(t, "*Skyrim.esm\n*Update.esm\n*USSEP.esp\nUnused.esp\n", string(content))
	}
}
