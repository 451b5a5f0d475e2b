package crawl

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docscout"
	"github.com/gobwas/glob"
)

// CompileFilter compiles include and exclude path globs into a URL filter.
// Patterns are matched against the URL path without its leading slash, so
// "/docs/*" and "docs/*" are equivalent. '*' matches across '/', so
// "docs/*" covers the whole docs tree. A nil filter is returned when both lists are empty.
func CompileFilter(include, exclude []string) (*docscout.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}

	in, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	ex, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}
	return &docscout.URLFilter{Include: in, Exclude: ex}, nil
}

func compileGlobs(patterns []string) ([]docscout.Matcher, error) {
	var matchers []docscout.Matcher
	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, docscout.Errorf(docscout.EINVALID, "invalid path pattern %q: %v", p, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

// pathDepth returns how many path segments rawURL has below root.
func pathDepth(root, rawURL string) int {
	rel := strings.TrimPrefix(docscout.RelativePath(rawURL), strings.Trim(docscout.RelativePath(root), "/"))
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}

// scopePrefix returns the directory of the root URL's path. Walked links
// must stay under it unless include patterns say otherwise.
func scopePrefix(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i+1]
	}
	return "/"
}

func describeFilter(f *docscout.URLFilter) string {
	if f == nil {
		return "none"
	}
	return fmt.Sprintf("%d include, %d exclude", len(f.Include), len(f.Exclude))
}
