// Package types defines every cross‑package data structure used by the codedoc CLI.
package types

import (
	"path/filepath"
	"time"

	"github.com/temirov/codedoc/internal/utils"
)

const (
	// OutputFileName is the document written at the root of every scan.
	OutputFileName = "codebase.md"

	CommandGenerate = "generate"
	CommandInit     = "init"
	CommandMCP      = "mcp"

	FormatRaw  = "raw"
	FormatJSON = "json"
)

// ScanState names a stage of the document assembly state machine.
type ScanState string

const (
	StateIdle        ScanState = "idle"
	StateValidating  ScanState = "validating"
	StateDiscovering ScanState = "discovering"
	StateRendering   ScanState = "rendering"
	StateEmitting    ScanState = "emitting"
	StateComplete    ScanState = "complete"
	StateFailed      ScanState = "failed"
)

// FileEntry is a read-only view of one file below the scan root.
type FileEntry struct {
	Path              string `json:"path"`
	Name              string `json:"name"`
	Directory         string `json:"directory"`
	Extension         string `json:"extension,omitempty"`
	RelativePath      string `json:"relativePath"`
	RelativeDirectory string `json:"relativeDirectory,omitempty"`
}

// NewFileEntry derives the name, directory, extension and root-relative paths of absolutePath.
func NewFileEntry(rootPath string, absolutePath string) FileEntry {
	cleanPath := filepath.Clean(absolutePath)
	directory := filepath.Dir(cleanPath)
	relativeDirectory := utils.RelativePathOrSelf(directory, rootPath)
	if relativeDirectory == "." {
		relativeDirectory = utils.EmptyString
	}
	return FileEntry{
		Path:              cleanPath,
		Name:              filepath.Base(cleanPath),
		Directory:         directory,
		Extension:         filepath.Ext(cleanPath),
		RelativePath:      utils.RelativePathOrSelf(cleanPath, rootPath),
		RelativeDirectory: relativeDirectory,
	}
}

// ScanResult is everything a caller observes once a scan finishes.
type ScanResult struct {
	Root            string        `json:"root"`
	OutputPath      string        `json:"outputPath,omitempty"`
	DocumentWritten bool          `json:"documentWritten"`
	IncludedCount   int           `json:"includedCount"`
	DiscoveredCount int           `json:"discoveredCount"`
	Bytes           int64         `json:"bytes,omitempty"`
	Digest          string        `json:"digest,omitempty"`
	Tokens          int           `json:"tokens,omitempty"`
	TokenModel      string        `json:"tokenModel,omitempty"`
	Log             []string      `json:"log"`
	State           ScanState     `json:"state"`
	Message         string        `json:"message,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// Succeeded reports whether the scan reached the complete state.
func (result ScanResult) Succeeded() bool {
	return result.State == StateComplete
}
