package generator

import (
	"path"
	"strings"
)

// ValidatePath checks that p is a clean, relative, slash-separated path
// that stays inside the repository root.
func ValidatePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return newGeneratorError(GeneratorPathError, "empty path", p, nil)
	}
	if strings.Contains(p, "\\") {
		return newGeneratorError(GeneratorPathError, "path must use forward slashes", p, nil)
	}
	if strings.HasPrefix(p, "/") {
		return newGeneratorError(GeneratorPathError, "path must be relative", p, nil)
	}

	for _, component := range strings.Split(p, "/") {
		switch component {
		case "":
			return newGeneratorError(GeneratorPathError, "path has an empty component", p, nil)
		case ".", "..":
			return newGeneratorError(GeneratorPathError, "path traversal is not allowed", p, nil)
		}
	}

	if path.Clean(p) != p {
		return newGeneratorError(GeneratorPathError, "path is not clean", p, nil)
	}
	return nil
}

// parentDirs returns the ancestors of p from the outermost inwards,
// e.g. ".github/workflows/ci.yml" gives [".github", ".github/workflows"].
func parentDirs(p string) []string {
	var dirs []string
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
	}
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}
