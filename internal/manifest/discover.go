package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/pkg/fileutil"
)

// Discover lists manifest files directly inside dirs, sorted by path
// within each directory. Missing directories are skipped.
func Discover(dirs ...string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "reading plugin directory %s", dir)
		}

		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			enc, err := fileutil.EncodingFor(e.Name())
			if err != nil || enc == fileutil.EncodingJSON {
				continue
			}
			found = append(found, filepath.Join(dir, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
