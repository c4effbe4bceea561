package filter

import (
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/codedoc/internal/types"
)

// Filter is the single inclusion predicate shared by tree rendering and file
// discovery, which keeps both document sections in agreement.
type Filter struct {
	Root     string
	Patterns ExclusionPatternSet
	// GitIgnore is optional; when set, matching paths are excluded as well.
	GitIgnore gitignore.IgnoreMatcher
	// OutputPath is never included so a previous document is not fed back into the next one.
	OutputPath string
}

// New builds a Filter for root with the built-in tokens followed by extraTokens.
func New(root string, extraTokens []string) Filter {
	cleanRoot := filepath.Clean(root)
	return Filter{
		Root:       cleanRoot,
		Patterns:   NewExclusionPatternSet(extraTokens),
		OutputPath: filepath.Join(cleanRoot, types.OutputFileName),
	}
}

// WithGitIgnore returns a copy of the filter that also honours matcher.
func (filter Filter) WithGitIgnore(matcher gitignore.IgnoreMatcher) Filter {
	filter.GitIgnore = matcher
	return filter
}

// IncludeFile reports whether entry passes exclusion and classification.
func (filter Filter) IncludeFile(entry types.FileEntry) bool {
	if filter.OutputPath != "" && entry.Path == filter.OutputPath {
		return false
	}
	if filter.Patterns.Excludes(entry) {
		return false
	}
	if filter.GitIgnore != nil && filter.GitIgnore.Match(entry.Path, false) {
		return false
	}
	return IsSourceLike(entry.Path)
}

// SkipDirectory reports whether the directory at absolutePath should be pruned with its subtree.
func (filter Filter) SkipDirectory(absolutePath string, relativeDirectory string) bool {
	if filter.Patterns.ExcludesDirectory(relativeDirectory) {
		return true
	}
	if filter.GitIgnore != nil && relativeDirectory != "" && relativeDirectory != "." {
		return filter.GitIgnore.Match(absolutePath, true)
	}
	return false
}
