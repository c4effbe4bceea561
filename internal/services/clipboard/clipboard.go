// Package clipboard places the generated document on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard is not available")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)

// CopyDocument reads the document at documentPath and hands it to copier.
func CopyDocument(copier Copier, documentPath string) error {
	content, readError := os.ReadFile(documentPath)
	if readError != nil {
		return fmt.Errorf("read %s for clipboard: %w", documentPath, readError)
	}
	if copyError := copier.Copy(string(content)); copyError != nil {
		return fmt.Errorf("copy %s to clipboard: %w", documentPath, copyError)
	}
	return nil
}
