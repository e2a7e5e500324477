package mesh

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase mesh stems to filesystem paths.
// The shallowest file wins when a stem appears in several subdirectories.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for .obj files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".obj" {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || depth(path) < depth(existing) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}

// ResolvePath returns the filesystem path for a mesh name, or ("", false).
// Directories and the extension in name are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	// "props\Crate.OBJ" → "crate"
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed meshes.
func (idx *Index) Len() int {
	return len(idx.entries)
}
