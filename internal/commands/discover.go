package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/codedoc/internal/filter"
	"github.com/temirov/codedoc/internal/types"
	"github.com/temirov/codedoc/internal/utils"
)

const errorWalkRootFormat = "walking %s: %w"

// FileDiscoverer lists the files that go into the document.
type FileDiscoverer struct {
	Filter filter.Filter
	// Warn receives one message per subdirectory that could not be listed.
	Warn func(message string)
	// ReadDir defaults to os.ReadDir.
	ReadDir DirectoryReader
}

type discoveryItem struct {
	path        string
	isDirectory bool
}

// DiscoverFiles returns every file below root that the filter includes, in
// lexical walk order. Excluded directories are pruned without being entered.
func DiscoverFiles(root string, rootFilter filter.Filter, warn func(string)) ([]types.FileEntry, error) {
	discoverer := &FileDiscoverer{Filter: rootFilter, Warn: warn}
	return discoverer.Discover(root)
}

// Discover walks root depth-first in lexical order, visiting each
// subdirectory's contents right after the subdirectory itself. A subdirectory
// whose listing fails contributes no files, matching the rendered tree.
func (discoverer *FileDiscoverer) Discover(root string) ([]types.FileEntry, error) {
	warn := warnOrDiscard(discoverer.Warn)
	readDir := readerOrDefault(discoverer.ReadDir)
	cleanRoot := filepath.Clean(root)

	rootEntries, readRootError := readDir(cleanRoot)
	if readRootError != nil {
		return nil, fmt.Errorf(errorWalkRootFormat, cleanRoot, readRootError)
	}

	var files []types.FileEntry
	stack := pushDiscoveryItems(nil, cleanRoot, rootEntries)
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !item.isDirectory {
			entry := types.NewFileEntry(cleanRoot, item.path)
			if discoverer.Filter.IncludeFile(entry) {
				files = append(files, entry)
			}
			continue
		}
		if discoverer.Filter.SkipDirectory(item.path, utils.RelativePathOrSelf(item.path, cleanRoot)) {
			continue
		}
		directoryEntries, readDirectoryError := readDir(item.path)
		if readDirectoryError != nil {
			warn(fmt.Sprintf(warningSkipSubdirFormat, item.path, readDirectoryError))
			continue
		}
		stack = pushDiscoveryItems(stack, item.path, directoryEntries)
	}
	return files, nil
}

// pushDiscoveryItems pushes entries in reverse so they pop in lexical order.
func pushDiscoveryItems(stack []discoveryItem, directoryPath string, entries []os.DirEntry) []discoveryItem {
	for index := len(entries) - 1; index >= 0; index-- {
		stack = append(stack, discoveryItem{
			path:        filepath.Join(directoryPath, entries[index].Name()),
			isDirectory: entries[index].IsDir(),
		})
	}
	return stack
}
