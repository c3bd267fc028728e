package dramsys

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dramtune/dramtune/search"
)

// Option directories under the configs root, one per string gene.
const (
	AddressMappingDir = "addressmapping"
	MCConfigDir       = "mcconfig"
	MemSpecDir        = "memspec"
	SimConfigDir      = "simconfig"
)

// ListFiles returns the paths of the regular files directly inside dir, in name order.
// Symlinks count when they resolve to a regular file.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = info.Mode()
		}
		if mode.IsRegular() {
			files = append(files, path)
		}
	}
	return files, nil
}

// DiscoverDomain builds the search domain from the option files under configsRoot.
// Missing directories and empty gene domains are errors.
func DiscoverDomain(configsRoot string, clockSpeeds []int) (search.Domain, error) {
	var d search.Domain
	for _, gene := range []struct {
		dir string
		dst *[]string
	}{
		{AddressMappingDir, &d.AddressMappings},
		{MCConfigDir, &d.MCConfigs},
		{MemSpecDir, &d.MemSpecs},
		{SimConfigDir, &d.SimConfigs},
	} {
		files, err := ListFiles(filepath.Join(configsRoot, gene.dir))
		if err != nil {
			return search.Domain{}, err
		}
		*gene.dst = files
	}
	d.ClockSpeeds = append([]int(nil), clockSpeeds...)
	if err := d.Validate(); err != nil {
		return search.Domain{}, fmt.Errorf("configs root %s: %w", configsRoot, err)
	}
	return d, nil
}
