package httpmetrics

import (
	"regexp"
	"strings"
)

const otherPath = "/other"

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// idNames maps the segment preceding an id to the label used for it.
var idNames = map[string]string{
	"jobs":  "{jobId}",
	"users": "{userId}",
	"apply": "{id}",
}

// NormalizePath turns a request path into a bounded metrics label. Ids are
// named after the collection they follow; anything outside /api, /health and
// /metrics collapses into a single label.
func NormalizePath(path string) string {
	path = strings.TrimSuffix(path, "/")
	switch {
	case path == "":
		return "/"
	case path == "/health", path == "/metrics":
		return path
	case !strings.HasPrefix(path, "/api/"):
		return otherPath
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if !uuidRegex.MatchString(part) && !isNumeric(part) {
			continue
		}
		name, ok := idNames[parts[i-1]]
		if !ok {
			name = "{id}"
		}
		parts[i] = name
	}
	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
