package dramsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dramtune/dramtune/search"
)

func writeOptionTree(t *testing.T, root string, files map[string][]string) {
	t.Helper()
	for dir, names := range files {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		for _, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), []byte("{}"), 0o644))
		}
	}
}

func TestDiscoverDomain_ListsRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeOptionTree(t, root, map[string][]string{
		AddressMappingDir: {"am_b.json", "am_a.json"},
		MCConfigDir:       {"fifo.json"},
		MemSpecDir:        {"ddr4.json", "ddr5.json"},
		SimConfigDir:      {"example.json"},
	})
	// subdirectories are not options
	require.NoError(t, os.Mkdir(filepath.Join(root, MemSpecDir, "legacy"), 0o755))

	d, err := DiscoverDomain(root, []int{200, 400})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, AddressMappingDir, "am_a.json"),
		filepath.Join(root, AddressMappingDir, "am_b.json"),
	}, d.AddressMappings)
	assert.Len(t, d.MemSpecs, 2)
	assert.Equal(t, []int{200, 400}, d.ClockSpeeds)
	assert.Equal(t, 2*1*2*1*2, d.Size())
}

func TestDiscoverDomain_EmptyGeneIsError(t *testing.T) {
	root := t.TempDir()
	writeOptionTree(t, root, map[string][]string{
		AddressMappingDir: {"am.json"},
		MCConfigDir:       {},
		MemSpecDir:        {"ddr4.json"},
		SimConfigDir:      {"example.json"},
	})
	_, err := DiscoverDomain(root, search.DefaultClockSpeeds)
	assert.ErrorIs(t, err, search.ErrEmptyDomain)
}

func TestDiscoverDomain_MissingDirectoryIsError(t *testing.T) {
	_, err := DiscoverDomain(t.TempDir(), search.DefaultClockSpeeds)
	assert.Error(t, err)
}

func TestListFiles_FollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.stl")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.stl")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.stl")))

	files, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "link.stl"), filepath.Join(dir, "real.stl")}, files)
}
