package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codedoc/internal/commands"
	"github.com/temirov/codedoc/internal/filter"
)

type fixtureFile struct {
	relativePath string
	content      string
}

func writeFixture(testingHandle *testing.T, files []fixtureFile) string {
	testingHandle.Helper()
	rootDirectory := filepath.Join(testingHandle.TempDir(), "proj")
	for _, file := range files {
		absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(file.relativePath))
		if makeDirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeDirError != nil {
			testingHandle.Fatalf("mkdir: %v", makeDirError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(file.content), 0o644); writeError != nil {
			testingHandle.Fatalf("write %s: %v", file.relativePath, writeError)
		}
	}
	return rootDirectory
}

var projectFixture = []fixtureFile{
	{relativePath: "src/a.py", content: "print(1)"},
	{relativePath: "bin/x.dll", content: "\x00\x01"},
	{relativePath: "README", content: "hi"},
}

// TestRenderTreeProjectScenario verifies the rendered layout for a small project.
func TestRenderTreeProjectScenario(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, projectFixture)
	tree, renderError := commands.RenderTree(rootDirectory, filter.New(rootDirectory, nil), nil)
	if renderError != nil {
		testingHandle.Fatalf("RenderTree error: %v", renderError)
	}
	expected := strings.Join([]string{
		"proj/",
		"    src/",
		"        a.py",
		"    README",
	}, "\n")
	if tree != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", tree, expected)
	}
}

// TestRenderTreeOrdering verifies directories precede files and both are lexical at every depth.
func TestRenderTreeOrdering(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, []fixtureFile{
		{relativePath: "z.go", content: "package z"},
		{relativePath: "a.go", content: "package a"},
		{relativePath: "beta/deep/inner/c.go", content: "package c"},
		{relativePath: "beta/b.go", content: "package b"},
		{relativePath: "alpha/a.go", content: "package a"},
		{relativePath: "alpha/images/logo.png", content: "png"},
	})
	tree, renderError := commands.RenderTree(rootDirectory, filter.New(rootDirectory, nil), nil)
	if renderError != nil {
		testingHandle.Fatalf("RenderTree error: %v", renderError)
	}
	expected := strings.Join([]string{
		"proj/",
		"    alpha/",
		"        images/",
		"        a.go",
		"    beta/",
		"        deep/",
		"            inner/",
		"                c.go",
		"        b.go",
		"    a.go",
		"    z.go",
	}, "\n")
	if tree != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", tree, expected)
	}
}

// TestRenderTreeExtraTokens verifies caller tokens prune whole subtrees.
func TestRenderTreeExtraTokens(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, []fixtureFile{
		{relativePath: "vendor/lib/x.go", content: "package x"},
		{relativePath: "main.go", content: "package main"},
		{relativePath: "main_test.go", content: "package main"},
	})
	tree, renderError := commands.RenderTree(rootDirectory, filter.New(rootDirectory, []string{"vendor", "_test"}), nil)
	if renderError != nil {
		testingHandle.Fatalf("RenderTree error: %v", renderError)
	}
	if tree != "proj/\n    main.go" {
		testingHandle.Fatalf("unexpected tree:\n%s", tree)
	}
}

// TestRenderTreeMissingRoot verifies an unreadable root is an error.
func TestRenderTreeMissingRoot(testingHandle *testing.T) {
	rootDirectory := filepath.Join(testingHandle.TempDir(), "missing")
	if _, renderError := commands.RenderTree(rootDirectory, filter.New(rootDirectory, nil), nil); renderError == nil {
		testingHandle.Fatalf("expected an error for a missing root")
	}
}

// TestDiscoverFilesProjectScenario verifies discovery applies exclusion and classification.
func TestDiscoverFilesProjectScenario(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, append([]fixtureFile{
		{relativePath: "assets/logo.png", content: "png"},
		{relativePath: "codebase.md", content: "# previous run"},
	}, projectFixture...))
	files, discoverError := commands.DiscoverFiles(rootDirectory, filter.New(rootDirectory, nil), nil)
	if discoverError != nil {
		testingHandle.Fatalf("DiscoverFiles error: %v", discoverError)
	}
	var relativePaths []string
	for _, file := range files {
		relativePaths = append(relativePaths, file.RelativePath)
	}
	if strings.Join(relativePaths, ",") != "README,src/a.py" {
		testingHandle.Fatalf("unexpected files: %v", relativePaths)
	}
}

// TestTreeAndDiscoveryAgree verifies every tree leaf is discovered and every discovered file is a tree leaf.
func TestTreeAndDiscoveryAgree(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, []fixtureFile{
		{relativePath: "src/a.py", content: "print(1)"},
		{relativePath: "src/build/gen.py", content: "x = 1"},
		{relativePath: "src/rebuild.sh", content: "echo"},
		{relativePath: "web/node_modules/pkg/index.js", content: "module.exports = {}"},
		{relativePath: "web/app.tsx", content: "export {}"},
		{relativePath: "web/icon.svg", content: "<svg/>"},
		{relativePath: "docs/guide.md", content: "# guide"},
		{relativePath: "docs/notes", content: "plain"},
		{relativePath: "Dockerfile", content: "FROM scratch"},
		{relativePath: "yarn.lock", content: "lock"},
	})
	rootFilter := filter.New(rootDirectory, []string{"guide"})

	tree, renderError := commands.RenderTree(rootDirectory, rootFilter, nil)
	if renderError != nil {
		testingHandle.Fatalf("RenderTree error: %v", renderError)
	}
	files, discoverError := commands.DiscoverFiles(rootDirectory, rootFilter, nil)
	if discoverError != nil {
		testingHandle.Fatalf("DiscoverFiles error: %v", discoverError)
	}

	treeLeaves := map[string]struct{}{}
	var directoryStack []string
	for _, line := range strings.Split(tree, "\n")[1:] {
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / 4
		directoryStack = directoryStack[:depth-1]
		if strings.HasSuffix(trimmed, "/") {
			directoryStack = append(directoryStack, strings.TrimSuffix(trimmed, "/"))
			continue
		}
		treeLeaves[strings.Join(append(append([]string{}, directoryStack...), trimmed), "/")] = struct{}{}
	}

	if len(treeLeaves) != len(files) {
		testingHandle.Fatalf("tree has %d leaves, discovery found %d files\n%s", len(treeLeaves), len(files), tree)
	}
	for _, file := range files {
		if _, listed := treeLeaves[file.RelativePath]; !listed {
			testingHandle.Fatalf("%s discovered but not in tree\n%s", file.RelativePath, tree)
		}
	}
	for _, expected := range []string{"src/a.py", "web/app.tsx", "Dockerfile"} {
		if _, listed := treeLeaves[expected]; !listed {
			testingHandle.Fatalf("expected %s to be included\n%s", expected, tree)
		}
	}
}

// TestUnreadableSubdirectoryIsSkippedEverywhere verifies that a directory whose
// listing fails part way keeps its tree header but contributes no files to
// either the tree or discovery.
func TestUnreadableSubdirectoryIsSkippedEverywhere(testingHandle *testing.T) {
	rootDirectory := writeFixture(testingHandle, []fixtureFile{
		{relativePath: "src/a.py", content: "print(1)"},
		{relativePath: "src/broken/b.py", content: "print(2)"},
		{relativePath: "src/broken/c.py", content: "print(3)"},
	})
	brokenDirectory := filepath.Join(rootDirectory, "src", "broken")
	listingError := errors.New("input/output error")
	partialReader := func(name string) ([]os.DirEntry, error) {
		entries, readError := os.ReadDir(name)
		if readError != nil || name != brokenDirectory {
			return entries, readError
		}
		return entries[:1], listingError
	}
	rootFilter := filter.New(rootDirectory, nil)

	var treeWarnings []string
	treeBuilder := &commands.TreeBuilder{
		Filter:  rootFilter,
		Warn:    func(message string) { treeWarnings = append(treeWarnings, message) },
		ReadDir: partialReader,
	}
	tree, renderError := treeBuilder.Render(rootDirectory)
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	expectedTree := strings.Join([]string{"proj/", "    src/", "        broken/", "        a.py"}, "\n")
	if tree != expectedTree {
		testingHandle.Fatalf("unexpected tree:\n%s", tree)
	}

	var discoveryWarnings []string
	discoverer := &commands.FileDiscoverer{
		Filter:  rootFilter,
		Warn:    func(message string) { discoveryWarnings = append(discoveryWarnings, message) },
		ReadDir: partialReader,
	}
	files, discoverError := discoverer.Discover(rootDirectory)
	if discoverError != nil {
		testingHandle.Fatalf("Discover error: %v", discoverError)
	}
	if len(files) != 1 || files[0].RelativePath != "src/a.py" {
		testingHandle.Fatalf("unexpected files: %+v", files)
	}

	for _, warnings := range [][]string{treeWarnings, discoveryWarnings} {
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Skipping subdirectory "+brokenDirectory) {
			testingHandle.Fatalf("expected one warning for the broken directory, got %v", warnings)
		}
	}
	if treeWarnings[0] != discoveryWarnings[0] {
		testingHandle.Fatalf("warnings differ: %q vs %q", treeWarnings[0], discoveryWarnings[0])
	}
}
