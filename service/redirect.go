package service

import "strings"

// RelativePath computes the path that, resolved relative to from,
// reconstructs to. from is treated as a file inside its parent
// directory, to likewise unless it ends in a separator. The result is
// never empty, a redirect target that resolves to the current
// directory is emitted as "./".
func RelativePath(from, to string) string {
	fromSegments := strings.Split(from, "/")
	fromDirs := fromSegments[:len(fromSegments)-1]

	toSegments := strings.Split(to, "/")
	toDirs := toSegments[:len(toSegments)-1]
	toFile := toSegments[len(toSegments)-1]

	// strip the longest common leading directory run
	common := 0
	for common < len(fromDirs) && common < len(toDirs) && fromDirs[common] == toDirs[common] {
		common++
	}

	segments := make([]string, 0, len(fromDirs)-common+len(toDirs)-common)
	for range fromDirs[common:] {
		segments = append(segments, "..")
	}
	segments = append(segments, toDirs[common:]...)

	relative := strings.Join(segments, "/")
	if len(segments) > 0 {
		relative += "/"
	}
	relative += toFile

	if relative == "" {
		return "./"
	}

	return relative
}

// redirectLocation computes the Location for a canonical redirect:
// the preferred module path is re-prefixed with its namespace, then
// either appended to the configured absolute redirect base or made
// relative to the requesting path. The original query string (callback
// included) is preserved verbatim.
func (d *Dispatcher) redirectLocation(requestPath, preferredModulePath, rawQuery string) string {
	target := d.router.NamespacePath(preferredModulePath)

	var location string
	if d.redirectBase != "" {
		location = strings.TrimSuffix(d.redirectBase, "/") + target
	} else {
		location = RelativePath(requestPath, target)
	}

	if rawQuery != "" {
		location += "?" + rawQuery
	}

	return location
}
