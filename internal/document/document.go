// Package document assembles the markdown written to codebase.md.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/temirov/codedoc/internal/utils"
)

const (
	titleLine               = "# Codebase Documentation"
	generatedOnPrefix       = "Generated on: "
	directoryPrefix         = "Directory: "
	projectStructureHeading = "## Project Structure"
	fileContentsHeading     = "## File Contents"
	fileHeadingPrefix       = "### "

	fenceMarker        = '`'
	minimumFenceLength = 3

	temporaryFilePattern = ".codebase-*.md.tmp"
	outputFileMode       = 0o644

	errorCreateTemporaryFormat = "create temporary file in %s: %w"
	errorWriteTemporaryFormat  = "write temporary file %s: %w"
	errorReplaceOutputFormat   = "replace %s: %w"
)

// Document is an append-only markdown builder. Segments are written in call
// order and never reordered.
type Document struct {
	builder strings.Builder
	// timestampStart and timestampEnd delimit the "Generated on:" line, which is
	// left out of the digest so that repeated runs compare equal.
	timestampStart int
	timestampEnd   int
	fileCount      int
}

// New starts a document for rootPath with its header block.
func New(rootPath string, generatedAt time.Time) *Document {
	document := &Document{}
	document.builder.WriteString(titleLine + "\n")
	document.timestampStart = document.builder.Len()
	document.builder.WriteString(generatedOnPrefix + utils.FormatTimestamp(generatedAt) + "\n")
	document.timestampEnd = document.builder.Len()
	document.builder.WriteString(directoryPrefix + rootPath + "\n\n")
	document.builder.WriteString(projectStructureHeading + "\n\n")
	return document
}

// WriteTree appends the rendered tree as a fenced block followed by the file
// contents heading.
func (document *Document) WriteTree(tree string) {
	fence := Fence(tree)
	document.builder.WriteString(fence + "\n")
	document.builder.WriteString(utils.EnsureTrailingNewline(tree))
	document.builder.WriteString(fence + "\n\n")
	document.builder.WriteString(fileContentsHeading + "\n\n")
}

// AppendFile appends one file segment: heading, opening fence tagged with hint,
// the content verbatim and the closing fence.
func (document *Document) AppendFile(relativePath string, hint string, content string) {
	fence := Fence(content)
	document.builder.WriteString(fileHeadingPrefix + relativePath + "\n\n")
	document.builder.WriteString(fence + hint + "\n")
	document.builder.WriteString(utils.EnsureTrailingNewline(content))
	document.builder.WriteString(fence + "\n\n")
	document.fileCount++
}

// FileCount returns the number of file segments appended so far.
func (document *Document) FileCount() int {
	return document.fileCount
}

// String returns the document text.
func (document *Document) String() string {
	return document.builder.String()
}

// Len returns the document size in bytes.
func (document *Document) Len() int {
	return document.builder.Len()
}

// Digest returns the xxh3 hash of the document without its timestamp line.
func (document *Document) Digest() string {
	text := document.builder.String()
	hasher := xxh3.New()
	_, _ = hasher.WriteString(text[:document.timestampStart])
	_, _ = hasher.WriteString(text[document.timestampEnd:])
	return fmt.Sprintf("%016x", hasher.Sum64())
}

// WriteFile replaces outputPath with the document. The text goes to a
// temporary file in the same directory which is then renamed over the target,
// so readers see either the previous document or the complete new one.
func (document *Document) WriteFile(outputPath string) error {
	directory := filepath.Dir(outputPath)
	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTemporaryFormat, directory, createError)
	}
	temporaryPath := temporaryFile.Name()

	_, writeError := temporaryFile.WriteString(document.builder.String())
	closeError := temporaryFile.Close()
	if writeError == nil {
		writeError = closeError
	}
	if writeError == nil {
		writeError = os.Chmod(temporaryPath, outputFileMode)
	}
	if writeError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(errorWriteTemporaryFormat, temporaryPath, writeError)
	}

	if renameError := os.Rename(temporaryPath, outputPath); renameError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(errorReplaceOutputFormat, outputPath, renameError)
	}
	return nil
}

// Fence returns a backtick fence longer than any backtick run inside content.
func Fence(content string) string {
	length := utils.LongestRun(content, fenceMarker) + 1
	if length < minimumFenceLength {
		length = minimumFenceLength
	}
	return strings.Repeat(string(fenceMarker), length)
}
