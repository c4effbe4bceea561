package filter_test

import (
	"path/filepath"
	"testing"

	"github.com/temirov/codedoc/internal/filter"
	"github.com/temirov/codedoc/internal/types"
)

const testRoot = "/proj"

func entryFor(relativePath string) types.FileEntry {
	return types.NewFileEntry(testRoot, filepath.Join(testRoot, filepath.FromSlash(relativePath)))
}

func TestExclusionPatternSetExcludes(t *testing.T) {
	testCases := []struct {
		name         string
		extraTokens  []string
		relativePath string
		expected     bool
	}{
		{name: "plain source file", relativePath: "src/a.py", expected: false},
		{name: "binary extension", relativePath: "assets/logo.png", expected: true},
		{name: "extension case is ignored", relativePath: "assets/LOGO.PNG", expected: true},
		{name: "build directory name", relativePath: "bin/x.dll", expected: true},
		{name: "nested dependency directory", relativePath: "web/node_modules/lib/index.js", expected: true},
		{name: "file name containing token", relativePath: "scripts/rebuild.sh", expected: true},
		{name: "lock file", relativePath: "yarn.lock", expected: true},
		{name: "caller token matches name", extraTokens: []string{"secret"}, relativePath: "config/Secrets.json", expected: true},
		{name: "caller token matches directory", extraTokens: []string{"Vendor"}, relativePath: "vendor/pkg/a.go", expected: true},
		{name: "blank caller token ignored", extraTokens: []string{"", "  "}, relativePath: "src/a.py", expected: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			set := filter.NewExclusionPatternSet(testCase.extraTokens)
			if result := set.Excludes(entryFor(testCase.relativePath)); result != testCase.expected {
				t.Fatalf("Excludes(%s) = %v, want %v", testCase.relativePath, result, testCase.expected)
			}
		})
	}
}

func TestExclusionPatternSetIgnoresRootLocation(t *testing.T) {
	set := filter.NewExclusionPatternSet(nil)
	entry := types.NewFileEntry("/home/user/builds/proj", "/home/user/builds/proj/main.go")
	if set.Excludes(entry) {
		t.Fatalf("root location must not take part in matching")
	}
}

func TestExclusionPatternSetOrder(t *testing.T) {
	set := filter.NewExclusionPatternSet([]string{"Extra", "extra"})
	tokens := set.Tokens()
	if len(tokens) != len(filter.DefaultExclusionTokens)+2 {
		t.Fatalf("unexpected token count %d", len(tokens))
	}
	if tokens[0] != filter.DefaultExclusionTokens[0] {
		t.Fatalf("built-in tokens must come first, got %q", tokens[0])
	}
	if tokens[len(tokens)-1] != "extra" || tokens[len(tokens)-2] != "extra" {
		t.Fatalf("caller tokens must be appended lower-cased without deduplication: %v", tokens[len(tokens)-2:])
	}
}

func TestExcludesDirectory(t *testing.T) {
	set := filter.NewExclusionPatternSet([]string{"generated"})
	testCases := []struct {
		relativeDirectory string
		expected          bool
	}{
		{relativeDirectory: "", expected: false},
		{relativeDirectory: ".", expected: false},
		{relativeDirectory: "src", expected: false},
		{relativeDirectory: "src/obj", expected: true},
		{relativeDirectory: ".git", expected: true},
		{relativeDirectory: "api/Generated", expected: true},
	}
	for _, testCase := range testCases {
		if result := set.ExcludesDirectory(testCase.relativeDirectory); result != testCase.expected {
			t.Fatalf("ExcludesDirectory(%q) = %v, want %v", testCase.relativeDirectory, result, testCase.expected)
		}
	}
}
