package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// ModuleFile maps a dotted module path to a file under root, mimicking a
// hierarchical import system: "a.b.c" resolves to a/b/c.py, or failing that
// to the package index a/b/c/__init__.py. Returns the relative path and
// whether it exists.
func ModuleFile(root, module string) (string, bool) {
	base := strings.ReplaceAll(module, ".", "/")

	direct := base + ".py"
	if fileExists(filepath.Join(root, direct)) {
		return direct, true
	}
	pkg := base + "/__init__.py"
	if fileExists(filepath.Join(root, pkg)) {
		return pkg, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
