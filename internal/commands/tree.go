// Package commands collects the data that goes into the generated document:
// the rendered directory tree and the ordered list of files to embed.
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/codedoc/internal/filter"
	"github.com/temirov/codedoc/internal/types"
	"github.com/temirov/codedoc/internal/utils"
)

const (
	// indentUnit is prepended once per nesting level.
	indentUnit = "    "

	directorySuffix = "/"

	// warningSkipSubdirFormat is used when a subdirectory cannot be listed.
	warningSkipSubdirFormat = "Warning: Skipping subdirectory %s due to error: %v"

	// errorReadDirectoryFormat is used when the root directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// RenderTree renders the directory tree below root, listing child directories
// before files and omitting everything the filter rejects. Unreadable
// subdirectories keep their header line and are reported through warn.
func RenderTree(root string, rootFilter filter.Filter, warn func(string)) (string, error) {
	treeBuilder := &TreeBuilder{Filter: rootFilter, Warn: warn}
	return treeBuilder.Render(root)
}

// Render walks root depth-first with an explicit stack and returns the tree
// lines joined by newlines, without a trailing newline.
func (treeBuilder *TreeBuilder) Render(root string) (string, error) {
	warn := warnOrDiscard(treeBuilder.Warn)
	readDir := readerOrDefault(treeBuilder.ReadDir)
	cleanRoot := filepath.Clean(root)

	var lines []string
	stack := []treeFrame{{directoryPath: cleanRoot}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.isFileBlock {
			lines = append(lines, frame.fileLines...)
			continue
		}

		lines = append(lines, frame.indent+directoryLabel(frame.directoryPath))

		// A listing that fails part way is discarded whole; discovery does the same.
		directoryEntries, readDirectoryError := readDir(frame.directoryPath)
		if readDirectoryError != nil {
			if frame.directoryPath == cleanRoot {
				return "", fmt.Errorf(errorReadDirectoryFormat, cleanRoot, readDirectoryError)
			}
			warn(fmt.Sprintf(warningSkipSubdirFormat, frame.directoryPath, readDirectoryError))
			continue
		}

		childIndent := frame.indent + indentUnit
		var childDirectories []treeFrame
		var fileLines []string
		for _, directoryEntry := range directoryEntries {
			childPath := filepath.Join(frame.directoryPath, directoryEntry.Name())
			if directoryEntry.IsDir() {
				relativeDirectory := utils.RelativePathOrSelf(childPath, cleanRoot)
				if treeBuilder.Filter.SkipDirectory(childPath, relativeDirectory) {
					continue
				}
				childDirectories = append(childDirectories, treeFrame{directoryPath: childPath, indent: childIndent})
				continue
			}
			if treeBuilder.Filter.IncludeFile(types.NewFileEntry(cleanRoot, childPath)) {
				fileLines = append(fileLines, childIndent+directoryEntry.Name())
			}
		}

		// The stack is LIFO: files go in first so they come out after every
		// subdirectory, and subdirectories go in reversed to keep lexical order.
		if len(fileLines) > 0 {
			stack = append(stack, treeFrame{fileLines: fileLines, isFileBlock: true})
		}
		for index := len(childDirectories) - 1; index >= 0; index-- {
			stack = append(stack, childDirectories[index])
		}
	}

	return strings.Join(lines, "\n"), nil
}

func directoryLabel(directoryPath string) string {
	name := filepath.Base(directoryPath)
	if strings.HasSuffix(name, string(filepath.Separator)) {
		return name
	}
	return name + directorySuffix
}
