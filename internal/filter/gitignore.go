package filter

import (
	"fmt"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

const gitIgnoreFileName = ".gitignore"

// LoadGitIgnore parses the .gitignore at the root of rootPath.
// A missing file yields a nil matcher and no error.
func LoadGitIgnore(rootPath string) (gitignore.IgnoreMatcher, error) {
	gitIgnorePath := filepath.Join(rootPath, gitIgnoreFileName)
	if _, statError := os.Stat(gitIgnorePath); statError != nil {
		if os.IsNotExist(statError) {
			return nil, nil
		}
		return nil, fmt.Errorf("inspect %s: %w", gitIgnorePath, statError)
	}
	matcher, parseError := gitignore.NewGitIgnore(gitIgnorePath, rootPath)
	if parseError != nil {
		return nil, fmt.Errorf("parse %s: %w", gitIgnorePath, parseError)
	}
	return matcher, nil
}
