// Package filter decides which files under a scan root belong in the generated document.
package filter

import (
	"strings"

	"github.com/temirov/codedoc/internal/types"
)

// DefaultExclusionTokens are always active and cannot be removed by callers.
var DefaultExclusionTokens = []string{
	"bin", "obj", "node_modules", ".git", ".vs", ".idea",
	"packages", "dist", "build", ".exe", ".dll", ".pdb", ".cache",
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg", ".mp4", ".mp3",
	".zip", ".tar", ".gz", ".rar", ".7z", ".bin", ".lock",
	// Godot generated and binary assets
	".mono", ".stex", ".scn", ".ctex",
	".dds", ".wav", ".ogg",
}

// ExclusionPatternSet is an ordered list of case-insensitive substring tokens.
// Tokens are stored lower-cased; the set is not modified after construction.
type ExclusionPatternSet struct {
	tokens []string
}

// NewExclusionPatternSet combines the built-in tokens with extra caller tokens, built-ins first.
// Blank caller tokens are dropped.
func NewExclusionPatternSet(extra []string) ExclusionPatternSet {
	tokens := make([]string, 0, len(DefaultExclusionTokens)+len(extra))
	for _, token := range DefaultExclusionTokens {
		tokens = append(tokens, strings.ToLower(token))
	}
	for _, token := range extra {
		trimmedToken := strings.TrimSpace(token)
		if trimmedToken == "" {
			continue
		}
		tokens = append(tokens, strings.ToLower(trimmedToken))
	}
	return ExclusionPatternSet{tokens: tokens}
}

// Tokens returns a copy of the tokens in evaluation order.
func (set ExclusionPatternSet) Tokens() []string {
	return append([]string(nil), set.tokens...)
}

// Excludes reports whether any token is contained in the entry's base name,
// its root-relative directory path or its extension.
func (set ExclusionPatternSet) Excludes(entry types.FileEntry) bool {
	fileName := strings.ToLower(entry.Name)
	directoryPath := strings.ToLower(entry.RelativeDirectory)
	extension := strings.ToLower(entry.Extension)
	for _, token := range set.tokens {
		if strings.Contains(fileName, token) ||
			strings.Contains(directoryPath, token) ||
			strings.Contains(extension, token) {
			return true
		}
	}
	return false
}

// ExcludesDirectory reports whether the directory at relativeDirectory, and so
// its entire subtree, is excluded. The scan root ("" or ".") is never excluded.
func (set ExclusionPatternSet) ExcludesDirectory(relativeDirectory string) bool {
	if relativeDirectory == "" || relativeDirectory == "." {
		return false
	}
	directoryPath := strings.ToLower(relativeDirectory)
	for _, token := range set.tokens {
		if strings.Contains(directoryPath, token) {
			return true
		}
	}
	return false
}
