package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns every supported file under root in lexical order.
// Hidden directories and files are skipped. A root that is itself a file
// is returned as is when supported.
func Discover(root string, markdownOnly bool) ([]string, error) {
	accept := func(name string) bool {
		if markdownOnly {
			ext := strings.ToLower(filepath.Ext(name))
			return ext == ".md" || ext == ".markdown"
		}
		return IsSupportedExtension(name)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && accept(name) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
