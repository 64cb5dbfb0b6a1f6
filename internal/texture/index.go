package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// extRank orders image formats for the same stem; lower wins. TGA carries
// alpha more often than the others.
var extRank = map[string]int{".tga": 0, ".png": 1, ".jpg": 2, ".jpeg": 2}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir and its subdirectories for TGA, PNG and JPEG files.
// A missing directory yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := stemOf(path)
		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

// ResolvePath returns the texture file for a material or texture name such as
// "Models/Robot" or "robot.png".
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[stemOf(name)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func stemOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := name[strings.LastIndex(name, "/")+1:]
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
