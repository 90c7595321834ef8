package clipdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const clipExt = ".mp4"

// Scan lists the .mp4 files directly inside dir, sorted by name.
// Subdirectories are not explored.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan clips: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if t := e.Type(); !t.IsRegular() && t&os.ModeSymlink == 0 {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), clipExt) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ID is the stable identifier of a clip path.
func ID(path string) string {
	return filepath.Base(path)
}
