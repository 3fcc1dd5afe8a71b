package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml *.def
var DataFS embed.FS

// Load reads a data file. A file on disk wins over the embedded copy, so
// edited definitions are picked up without a rebuild.
func Load(name string) ([]byte, error) {
	return readLayered(name, DataFS, "")
}

// LoadScript reads a tengo script from disk or the embedded scripts.
func LoadScript(name string) ([]byte, error) {
	return readLayered(name, ScriptsFS, "scripts")
}

// readLayered tries name as given, then relative to the prefabs directory,
// then inside fsys under dir.
func readLayered(name string, fsys fs.FS, dir string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	rel := embeddedName(name, dir)
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fs.ReadFile(fsys, rel)
}

// embeddedName maps "prefabs/scripts/x.tengo", "scripts/x.tengo" and
// "x.tengo" to the same embedded path.
func embeddedName(name, dir string) string {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "prefabs/")
	if dir == "" {
		return s
	}
	return path.Join(dir, strings.TrimPrefix(s, dir+"/"))
}
