package flatconfig

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matches reports whether the block applies to the file at the given path.
// Paths are relative to the configuration root. Global ignore blocks never
// match; they are handled by Configuration.Ignored.
func (b *ConfigBlock) Matches(file string) bool {
	if b == nil || b.IsGlobalIgnore() {
		return false
	}
	p := normalizePath(file)
	if len(b.Files) > 0 && !matchAny(b.Files, p) {
		return false
	}
	return !ignoredBy(b.Ignores, p)
}

// ValidPattern reports whether a files or ignores pattern is well formed.
// A leading "!" is allowed.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(strings.TrimPrefix(cleanPattern(pattern), "!"))
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

// ignoredBy evaluates ignore patterns in order; a "!" pattern re-includes a
// path ignored by an earlier pattern.
func ignoredBy(patterns []string, p string) bool {
	ignored := false
	for _, pattern := range patterns {
		if neg, ok := strings.CutPrefix(pattern, "!"); ok {
			if ignored && matchPattern(neg, p) {
				ignored = false
			}
			continue
		}
		if !ignored && matchPattern(pattern, p) {
			ignored = true
		}
	}
	return ignored
}

func matchPattern(pattern, p string) bool {
	pattern = cleanPattern(pattern)
	// "dir/" ignores everything below dir.
	if strings.HasSuffix(pattern, "/") {
		pattern += "**"
	}
	ok, err := doublestar.Match(pattern, p)
	return err == nil && ok
}

func cleanPattern(pattern string) string {
	neg := strings.HasPrefix(pattern, "!")
	pattern = strings.TrimPrefix(pattern, "!")
	pattern = strings.TrimPrefix(pattern, "./")
	if neg {
		return "!" + pattern
	}
	return pattern
}

func normalizePath(file string) string {
	p := path.Clean(filepath.ToSlash(file))
	return strings.TrimPrefix(p, "./")
}
