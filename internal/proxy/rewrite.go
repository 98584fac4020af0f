package proxy

import "strings"

// rewritePath strips the gateway's mount prefix from the request path and
// prepends the upstream base path. Query strings are carried separately and
// never touched.
func rewritePath(path, stripPrefix, basePath string) string {
	rewritten := path
	if stripPrefix != "" && strings.HasPrefix(rewritten, stripPrefix) {
		rewritten = rewritten[len(stripPrefix):]
	}
	if !strings.HasPrefix(rewritten, "/") {
		rewritten = "/" + rewritten
	}

	base := strings.TrimSuffix(basePath, "/")
	return base + rewritten
}
