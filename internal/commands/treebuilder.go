package commands

import (
	"os"

	"github.com/temirov/codedoc/internal/filter"
)

// DirectoryReader lists a directory in lexical order, like os.ReadDir. Tree
// rendering and discovery share one so they see the same listings.
type DirectoryReader func(name string) ([]os.DirEntry, error)

// TreeBuilder renders the project structure section using the shared filter.
type TreeBuilder struct {
	Filter filter.Filter
	// Warn receives one message per subdirectory that could not be listed.
	Warn func(message string)
	// ReadDir defaults to os.ReadDir.
	ReadDir DirectoryReader
}

// treeFrame is one unit of pending work on the render stack: either a directory
// still to be listed or a block of file lines already rendered for a directory
// whose subdirectories are being rendered first.
type treeFrame struct {
	directoryPath string
	indent        string
	fileLines     []string
	isFileBlock   bool
}

func readerOrDefault(readDir DirectoryReader) DirectoryReader {
	if readDir == nil {
		return os.ReadDir
	}
	return readDir
}

func warnOrDiscard(warn func(string)) func(string) {
	if warn == nil {
		return func(string) {}
	}
	return warn
}
